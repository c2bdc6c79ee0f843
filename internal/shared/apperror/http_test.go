package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"worksphere/internal/shared/apperror"
)

func TestToHTTP_AppError(t *testing.T) {
	err := fmt.Errorf("approve: %w", apperror.New(apperror.CodeInvalidState, "already processed", http.StatusConflict))

	got := apperror.ToHTTP(err)

	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, apperror.CodeInvalidState, got.Code)
	assert.Equal(t, "already processed", got.Message)
}

func TestToHTTP_WrappedAppErrorKeepsUserMessage(t *testing.T) {
	err := apperror.Wrap(errors.New("dial tcp: refused"), apperror.CodeGatewayError, "payment gateway unavailable", http.StatusBadGateway)

	got := apperror.ToHTTP(err)

	assert.Equal(t, http.StatusBadGateway, got.Status)
	assert.Equal(t, "payment gateway unavailable", got.Message)
}

func TestToHTTP_ValidationErrors(t *testing.T) {
	type payload struct {
		Month string `validate:"required"`
	}
	v := validator.New()
	err := v.Struct(payload{})

	got := apperror.ToHTTP(err)

	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, apperror.CodeInvalidInput, got.Code)
	assert.Equal(t, "Month is required", got.Message)
	assert.NotNil(t, got.Details)
}

func TestToHTTP_UnknownErrorIsHidden(t *testing.T) {
	got := apperror.ToHTTP(errors.New("pq: relation does not exist"))

	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, apperror.CodeInternalError, got.Code)
	assert.Equal(t, apperror.ErrInternal.Message, got.Message)
}

func TestAppError_WithCauseStillMatchesSentinel(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := apperror.ErrForbidden.WithCause(cause)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, apperror.ErrInternal)
	assert.Nil(t, apperror.ErrForbidden.Err)
}

func TestToHTTP_ValidationDetailsPerField(t *testing.T) {
	type payload struct {
		Month  string `validate:"required"`
		Amount int    `validate:"gt=0"`
		Status string `validate:"oneof=pending approved rejected"`
	}
	err := validator.New().Struct(payload{Month: "July", Status: "paid"})

	got := apperror.ToHTTP(err)

	assert.Equal(t, "Amount must be greater than 0", got.Message)
	assert.Equal(t, map[string]string{
		"Amount": "Amount must be greater than 0",
		"Status": "Status must be one of: pending approved rejected",
	}, got.Details)
}
