package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateUniqueUsername(t *testing.T) {
	err := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_username_key"}
	if got := translateUnique(err); !errors.Is(got, ErrDuplicateUsername) {
		t.Fatalf("got %v, want ErrDuplicateUsername", got)
	}
}

func TestTranslateUniqueEmail(t *testing.T) {
	err := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	if got := translateUnique(err); !errors.Is(got, ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", got)
	}
}

func TestTranslateUniqueWrapped(t *testing.T) {
	inner := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	err := fmt.Errorf("exec failed: %w", inner)
	if got := translateUnique(err); !errors.Is(got, ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", got)
	}
}

func TestTranslateUniqueOtherErrors(t *testing.T) {
	if got := translateUnique(errors.New("connection refused")); got != nil {
		t.Fatalf("got %v, want nil for non-pg error", got)
	}
	notNull := &pgconn.PgError{Code: "23502", ColumnName: "title"}
	if got := translateUnique(notNull); got != nil {
		t.Fatalf("got %v, want nil for non-unique violation", got)
	}
	unknown := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "something_else"}
	if got := translateUnique(unknown); got != nil {
		t.Fatalf("got %v, want nil for unrecognized constraint", got)
	}
}
