// Package main runs an interactive arena: two teams of heroes fight battles
// of random one-on-one duels until the player stops asking for rematches.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/frontend/console"
	"github.com/cory-johannsen/arena/internal/game/arena"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/team"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	rosterPath := flag.String("roster", "", "roster YAML of two teams; overrides content.roster_file")
	scriptsDir := flag.String("scripts", "", "Lua hook directory; overrides content.scripts_dir")
	seed := flag.Uint64("seed", 0, "reproducible random seed; overrides combat.seed")
	loadTeams := flag.String("load", "", "comma-separated names of two stored teams to fight")
	saveTeams := flag.Bool("save", false, "store both teams in the database before the first battle")
	exportPath := flag.String("export", "", "write both teams as roster YAML to this path")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("reading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *rosterPath != "" {
		cfg.Content.RosterFile = *rosterPath
	}
	if *scriptsDir != "" {
		cfg.Content.ScriptsDir = *scriptsDir
	}
	if *seed != 0 {
		cfg.Combat.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		// Prompts see the cancellation; a second signal during a battle
		// falls through to the default handler.
		<-ctx.Done()
		stop()
	}()

	var src dice.Source
	if cfg.Combat.Seed != 0 {
		src = dice.NewSeededSource(cfg.Combat.Seed)
		logger.Info("using seeded random source", zap.Uint64("seed", cfg.Combat.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	var scripts *scripting.Manager
	engineOpts := []combat.EngineOption{combat.WithMaxExchanges(cfg.Combat.MaxExchanges)}
	if cfg.Content.ScriptsDir != "" {
		scripts = scripting.NewManager(roller, logger)
		if err := scripts.Load(cfg.Content.ScriptsDir, cfg.Content.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.Error(err))
		}
		defer scripts.Close()
		engineOpts = append(engineOpts, combat.WithDuelHook(scripts.DuelHook()))
	}
	engine := combat.NewEngine(roller, logger, engineOpts...)

	con := console.New(os.Stdin, os.Stdout, roller,
		console.WithColor(cfg.Console.Color),
		console.WithStartingHealth(cfg.Combat.StartingHealth),
		console.WithLanguage(cfg.Console.Tag()),
		console.WithContext(ctx),
	)

	ts := teamSource{
		con:           con,
		src:           roller,
		defaultHealth: cfg.Combat.StartingHealth,
		rosterFile:    cfg.Content.RosterFile,
		logger:        logger,
	}
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		ts.repo = postgres.NewRosterRepository(pool.DB())
	} else if *loadTeams != "" || *saveTeams {
		logger.Fatal("-load and -save require database.enabled")
	}

	if *loadTeams != "" {
		ts.stored = strings.Split(*loadTeams, ",")
	}
	one, two, err := ts.teams(ctx)
	if err != nil {
		if errors.Is(err, console.ErrInputClosed) {
			return
		}
		logger.Fatal("building teams", zap.Error(err))
	}
	if *saveTeams {
		if err := ts.save(ctx, one, two); err != nil {
			logger.Fatal("saving teams", zap.Error(err))
		}
	}
	if *exportPath != "" {
		if err := exportRoster(*exportPath, one, two); err != nil {
			logger.Fatal("exporting roster", zap.Error(err))
		}
		logger.Info("roster exported", zap.String("path", *exportPath))
	}

	if scripts != nil {
		scripts.GetHero = heroLookup(one, two)
	}

	ar := arena.New(one, two, engine, logger, team.WithMaxDuels(cfg.Combat.MaxDuels))
	logger.Info("arena ready",
		zap.String("team_one", one.Name),
		zap.Int("team_one_size", one.Size()),
		zap.String("team_two", two.Name),
		zap.Int("team_two_size", two.Size()),
		zap.Duration("startup", time.Since(start)),
	)

	s := &session{con: con, arena: ar, scripts: scripts, logger: logger}
	if err := s.run(ctx); err != nil {
		logger.Fatal("arena session failed", zap.Error(err))
	}
	logger.Info("arena closed", zap.Int("rounds", ar.Round()))
}

// heroLookup resolves hero IDs across both teams for engine.hero.get.
func heroLookup(one, two *team.Team) func(id string) *scripting.HeroInfo {
	return func(id string) *scripting.HeroInfo {
		for _, t := range []*team.Team{one, two} {
			for _, h := range t.Heroes() {
				if h.ID == id {
					return scripting.HeroInfoOf(h)
				}
			}
		}
		return nil
	}
}
