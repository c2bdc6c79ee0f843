package worksheeterrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrWorksheetNotFound = apperror.New(
		apperror.CodeNotFound,
		"Worksheet entry not found",
		http.StatusNotFound,
	)

	ErrInvalidWorksheetID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid worksheet ID",
		http.StatusBadRequest,
	)

	ErrWorksheetNotOwned = apperror.New(
		apperror.CodeForbidden,
		"Only the owner can change this entry",
		http.StatusForbidden,
	)

	ErrWorksheetInactive = apperror.New(
		apperror.CodeForbidden,
		"Worksheet submission is disabled for your account",
		http.StatusForbidden,
	)

	ErrEmployeeOnly = apperror.New(
		apperror.CodeForbidden,
		"Only employees can submit worksheet entries",
		http.StatusForbidden,
	)

	ErrInvalidHours = apperror.New(
		apperror.CodeInvalidInput,
		"Hours must be between 0.5 and 24",
		http.StatusBadRequest,
	)

	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"Work date cannot be in the future",
		http.StatusBadRequest,
	)

	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be an English month name and year a positive number",
		http.StatusBadRequest,
	)
)
