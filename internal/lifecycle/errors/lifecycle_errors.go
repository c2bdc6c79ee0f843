package lifecycleerrors

import (
	"net/http"

	"worksphere/internal/shared/apperror"
)

var (
	ErrPaymentInitializationFailed = apperror.New(
		apperror.CodeGatewayError,
		"The payment could not be initialized",
		http.StatusBadGateway,
	)

	ErrGatewayUnexpected = apperror.New(
		apperror.CodeGatewayError,
		"The payment gateway failed unexpectedly",
		http.StatusBadGateway,
	)

	ErrGatewayTimeout = apperror.New(
		apperror.CodeGatewayTimeout,
		"The payment gateway did not respond in time",
		http.StatusGatewayTimeout,
	)

	ErrNotAwaitingConfirmation = apperror.New(
		apperror.CodeInvalidState,
		"No payment is awaiting confirmation for this request",
		http.StatusConflict,
	)

	ErrAlreadyConfirmed = apperror.New(
		apperror.CodeInvalidState,
		"A payment was already confirmed for this request",
		http.StatusConflict,
	)

	ErrClientSecretMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Client secret does not match the active payment",
		http.StatusBadRequest,
	)

	ErrForgedApproval = apperror.New(
		apperror.CodeForgedApproval,
		"Transaction ID does not match a confirmed payment for this request",
		http.StatusConflict,
	)

	ErrOperationInProgress = apperror.New(
		apperror.CodeConflict,
		"Another operation on this payment request is in progress",
		http.StatusConflict,
	)

	ErrAmountMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"Amount does not match the payment request",
		http.StatusBadRequest,
	)

	ErrPayeeMismatch = apperror.New(
		apperror.CodeInvalidInput,
		"User does not match the payment request",
		http.StatusBadRequest,
	)
)

// CardError carries the gateway's message for a declined or invalid card.
func CardError(err error, message string) *apperror.AppError {
	if message == "" {
		message = "The card could not be charged"
	}
	return apperror.New(apperror.CodeGatewayCardError, message, http.StatusPaymentRequired).WithCause(err)
}
