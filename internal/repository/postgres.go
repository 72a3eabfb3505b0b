package repository

import (
	"context"
	"errors"
	"fmt"

	"workorder-api/internal/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes surfaced to clients as something other than a 500.
const (
	codeUniqueViolation       = "23505"
	codeForeignKeyViolation   = "23503"
	codeCheckViolation        = "23514"
	codeInvalidTextRepr       = "22P02"
	codeInsufficientPrivilege = "42501"
)

// Repository implements the table store on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ping checks store connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// translate maps driver errors onto the application error kinds.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperror.Conflict("Resource already exists", err)
		case codeForeignKeyViolation:
			return &apperror.Error{Kind: apperror.KindValidation, Message: "Referenced resource does not exist", Err: err}
		case codeCheckViolation, codeInvalidTextRepr:
			return &apperror.Error{Kind: apperror.KindValidation, Message: "Invalid field value", Err: err}
		case codeInsufficientPrivilege:
			return apperror.Forbidden("Insufficient permissions", err)
		}
	}

	return fmt.Errorf("repository: %s: %w", op, err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
