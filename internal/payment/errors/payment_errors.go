package paymenterrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrDuplicateTransaction = apperror.New(
		apperror.CodeConflict,
		"This transaction has already been recorded",
		http.StatusConflict,
	)

	ErrAlreadyPaid = apperror.New(
		apperror.CodeConflict,
		"A payment already exists for this request",
		http.StatusConflict,
	)

	ErrInvalidFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be an English month name and year a positive number",
		http.StatusBadRequest,
	)

	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Could not build the payments export",
		http.StatusInternalServerError,
	)
)
