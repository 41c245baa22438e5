package bloodbank

import dErrors "bloodlink/pkg/domain-errors"

// User-facing messages.
const (
	msgAccessDenied    = "Access denied. Only blood banks are allowed to access this page."
	msgInvalidFormat   = "Invalid token format."
	msgInvalidData     = "Invalid token data."
	msgNoToken         = "No token found. Please log in."
	msgSubmitSucceeded = "Blood quantities updated successfully!"
	msgSubmitFailed    = "Failed to update blood units. Please try again later."
)

// Failures the dashboard handles itself. They are returned so callers can
// branch on them; the redirect or notification has already happened.
var (
	ErrAuthMissing            = dErrors.New(dErrors.CodeUnauthorized, "missing token or wrong role")
	ErrTokenMalformed         = dErrors.New(dErrors.CodeUnauthorized, "token payload cannot be decoded")
	ErrTokenIncomplete        = dErrors.New(dErrors.CodeUnauthorized, "token has no name claim")
	ErrSubmissionMissingToken = dErrors.New(dErrors.CodeUnauthorized, "no token for submission")
	ErrSubmissionFailed       = dErrors.New(dErrors.CodeUnavailable, "failed to update blood units")
	ErrSubmitDisabled         = dErrors.New(dErrors.CodeConflict, "submission in progress or already completed")
)
