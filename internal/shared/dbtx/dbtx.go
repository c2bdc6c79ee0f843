// Package dbtx lets gorm repositories run on a *sql.Tx opened by a service.
package dbtx

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Conn returns a gorm handle bound to ctx that executes on tx when tx is not
// nil.
func Conn(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	session := db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = tx
	return session
}

// IsUniqueViolation reports whether err is a Postgres unique violation on
// constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return constraint == ""
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") && (constraint == "" || strings.Contains(msg, strings.ToLower(constraint)))
}
