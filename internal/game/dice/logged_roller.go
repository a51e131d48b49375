package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every draw is visible at debug level.
// Roller itself satisfies Source and can be handed to anything that rolls.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and the result.
//
// Precondition: n > 0.
// Postcondition: result in [0, n); draw logged at debug level.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.Int("bound", n),
		zap.Int("value", v),
	)
	return v
}

// Log records a compound roll at debug level.
//
// Postcondition: result logged with label, per-source rolls, and total.
func (r *Roller) Log(result RollResult) {
	r.logger.Debug("compound roll",
		zap.String("label", result.Label),
		zap.Strings("sources", result.Names),
		zap.Ints("rolls", result.Rolls),
		zap.Int("total", result.Total()),
	)
}
