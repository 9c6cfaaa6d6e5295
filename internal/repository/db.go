package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/lib/pq"
)

// PostgreSQL error codes translated into errs kinds.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// Open connects to PostgreSQL through lib/pq and verifies the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// mapError classifies a database error. notFound is returned for
// sql.ErrNoRows; constraint violations become Conflict or Validation.
func mapError(err error, notFound *errs.Error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return errs.Conflict(conflictMessage(pqErr))
		case pqForeignKeyViolation:
			return errs.Conflict(referenceMessage(pqErr))
		case pqCheckViolation:
			return errs.Validation("value violates constraint " + pqErr.Constraint)
		}
	}
	return errs.Internal("failed to "+action, err)
}

func conflictMessage(e *pq.Error) string {
	switch e.Constraint {
	case "users_email_key":
		return errs.ErrEmailTaken.Message
	case "categories_user_id_name_key":
		return "category name already exists"
	default:
		return "resource already exists"
	}
}

func referenceMessage(e *pq.Error) string {
	switch e.Constraint {
	case "transactions_category_id_fkey":
		return "category is in use by transactions"
	case "accounts_user_id_fkey":
		return "user still owns accounts"
	default:
		return "resource is referenced by other records"
	}
}

// expectRow turns a zero-row UPDATE or DELETE into notFound.
func expectRow(res sql.Result, notFound *errs.Error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errs.Internal("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
