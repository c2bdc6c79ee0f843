package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeInvalidState         = "INVALID_STATE"
	CodeNotVerified          = "NOT_VERIFIED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeForgedApproval       = "FORGED_APPROVAL"

	// Payment gateway errors
	CodeGatewayCardError = "GATEWAY_CARD_ERROR"
	CodeGatewayError     = "GATEWAY_ERROR"
	CodeGatewayTimeout   = "GATEWAY_TIMEOUT"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
