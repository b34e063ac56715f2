package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAsPgError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "advocates_pkey"})
	pe, ok := AsPgError(wrapped)
	if !ok || pe.Code != UniqueViolationCode || pe.ConstraintName != "advocates_pkey" {
		t.Fatalf("AsPgError()=%+v,%v", pe, ok)
	}

	if _, ok := AsPgError(errors.New("plain")); ok {
		t.Fatalf("expected ok=false for non-pg error")
	}
}

func TestNewPool_RejectsEmptyAndMalformedDSN(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(context.Background(), "", PoolOptions{}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
	if _, err := NewPool(context.Background(), "postgres://%zz", PoolOptions{}); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}
