package errors

// Error code constants. Errors carry code + message; handlers decide the
// HTTP shape, logs are always in English.

// Submission/audit error codes.
const (
	CodeSubmissionNotFound = "SUBMISSION_NOT_FOUND"
	CodeAuditWriteFailed   = "AUDIT_WRITE_FAILED"
	CodeInvalidStatus      = "INVALID_STATUS"
)

// Operator API error codes.
const (
	CodeAdminTokenInvalid = "ADMIN_TOKEN_INVALID"
	CodeInvalidRequest    = "INVALID_REQUEST"
)

// Delivery error codes.
const (
	CodeEmailSendFailed = "EMAIL_SEND_FAILED"
	CodeEmailNotConfig  = "EMAIL_NOT_CONFIGURED"
)

// Generic codes.
const (
	CodeInternalError = "INTERNAL_ERROR"
)
