package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "teams_name_key"}
	tests := []struct {
		name       string
		err        error
		want       bool
		constraint string
	}{
		{"unique violation", dup, true, "teams_name_key"},
		{"wrapped unique violation", fmt.Errorf("saving team: %w", dup), true, "teams_name_key"},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "heroes_team_id_fkey"}, false, "heroes_team_id_fkey"},
		{"plain error", errors.New("connection reset"), false, ""},
		{"nil", nil, false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isDuplicateKeyError(tc.err))
			assert.Equal(t, tc.constraint, violatedConstraint(tc.err))
		})
	}
}
