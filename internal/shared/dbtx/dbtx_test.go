package dbtx_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"worksphere/internal/shared/dbtx"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_payment_request_period"}

	assert.True(t, dbtx.IsUniqueViolation(pgErr, "uq_payment_request_period"))
	assert.True(t, dbtx.IsUniqueViolation(pgErr, ""))
	assert.False(t, dbtx.IsUniqueViolation(pgErr, "uq_users_email"))
	assert.False(t, dbtx.IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.True(t, dbtx.IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq_users_email"`), "uq_users_email"))
	assert.False(t, dbtx.IsUniqueViolation(nil, ""))
}
