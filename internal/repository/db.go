package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the repositories need.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Constraint failures reported by the database.
var (
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrConstraintViolation = errors.New("constraint violation")
)

// ConstraintError wraps a database constraint failure.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return e.Kind.Error() + " (" + e.Constraint + ")"
	}
	return e.Kind.Error()
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// translateError maps PostgreSQL constraint errors onto the package sentinels.
// SQLSTATE 23505 is a unique violation; any other class 22 (data exception) or
// class 23 (integrity) error is a generic constraint violation.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == "23505":
		return &ConstraintError{Kind: ErrUniqueViolation, Constraint: pgErr.ConstraintName, Err: err}
	case len(pgErr.Code) == 5 && (pgErr.Code[:2] == "22" || pgErr.Code[:2] == "23"):
		return &ConstraintError{Kind: ErrConstraintViolation, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
