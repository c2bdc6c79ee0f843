package paymentrequesterrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrPaymentRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payment request not found",
		http.StatusNotFound,
	)

	ErrInvalidPaymentRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payment request ID",
		http.StatusBadRequest,
	)

	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)

	ErrNotVerified = apperror.New(
		apperror.CodeNotVerified,
		"The employee must be verified before a payment can be requested",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Amount must be greater than zero",
		http.StatusBadRequest,
	)

	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be an English month name",
		http.StatusBadRequest,
	)

	ErrYearOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"Year must be within the last five years",
		http.StatusBadRequest,
	)

	ErrActorNotPrivileged = apperror.New(
		apperror.CodeForbidden,
		"Only HR or Admin can request payments",
		http.StatusForbidden,
	)

	ErrEmployeeOnlyPayee = apperror.New(
		apperror.CodeInvalidInput,
		"Payments can only be requested for employees",
		http.StatusBadRequest,
	)

	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"A payment request for this employee and period already exists",
		http.StatusConflict,
	)

	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"The payment request is no longer pending",
		http.StatusConflict,
	)

	ErrPaymentConfirmed = apperror.New(
		apperror.CodeInvalidState,
		"A charged payment cannot be rejected",
		http.StatusConflict,
	)

	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be pending, approved or rejected",
		http.StatusBadRequest,
	)
)
