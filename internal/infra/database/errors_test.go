package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/prospector/internal/infra/persistence"
	"github.com/xavierca1/prospector/internal/resilience"
)

var _ persistence.Mirror = (*WorkspaceMirror)(nil)

func TestClassify_PgxCodes(t *testing.T) {
	tests := []struct {
		code  string
		kind  resilience.Kind
		fatal bool
	}{
		{"28P01", resilience.Unauthorized, true},
		{"28000", resilience.Unauthorized, true},
		{"42P01", resilience.NotFound, true},
		{"42703", resilience.NotFound, true},
		{"53300", resilience.QuotaExceeded, true},
		{"40001", resilience.Transient, false},
		{"23505", resilience.Transient, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := classify(fmt.Errorf("failed to fetch leads: %w", &pgconn.PgError{Code: tt.code, Message: "boom"}))

			kind, ok := resilience.KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.fatal, resilience.IsFatal(err))

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr), "driver error must stay reachable")
		})
	}
}

func TestClassify_PqCodes(t *testing.T) {
	err := classify(&pq.Error{Code: "42P01", Message: `relation "leads" does not exist`})

	kind, ok := resilience.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, resilience.NotFound, kind)
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("connection reset by peer")
	assert.Same(t, plain, classify(plain))
}
