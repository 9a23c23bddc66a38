package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/prospector/internal/resilience"
)

const service = "postgres"

// classify tags a driver error by SQLSTATE so the caller can tell a
// credentials or schema problem from a blip. Untagged errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}

	code := sqlState(err)
	if code == "" {
		return err
	}
	return resilience.Tag(service, kindFromSQLState(code), err)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func kindFromSQLState(code string) resilience.Kind {
	switch {
	case strings.HasPrefix(code, "28"):
		return resilience.Unauthorized
	case code == "42P01", code == "42703":
		return resilience.NotFound
	case strings.HasPrefix(code, "53"):
		return resilience.QuotaExceeded
	default:
		return resilience.Transient
	}
}
