package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLockConflict(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, true},
		{"serialization failure", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, true},
		{"wrapped lock timeout", fmt.Errorf("failed to lock incident: %w", &pgconn.PgError{Code: pgerrcode.LockNotAvailable}), true},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, false},
		{"plain error", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lockConflict(tt.err)

			assert.Equal(t, tt.conflict, errors.Is(err, models.ErrStateConflict))
			if !tt.conflict {
				assert.Same(t, tt.err, err)
			}
		})
	}
}

func TestLockConflict_Nil(t *testing.T) {
	assert.NoError(t, lockConflict(nil))
}
