package models

// ErrorResponse is the body of every non-2xx verifier response. Code is
// stable and machine readable; Message is for humans.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidRequest     = "invalid_request"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeVerificationFailed = "verification_failed"
	CodePossibleClone      = "possible_clone_detected"
	CodeCredentialNotFound = "credential_not_found"
	CodeAlreadyRegistered  = "already_registered"
	CodeChallengeExpired   = "challenge_expired_or_consumed"
	CodeUnsupportedKind    = "unsupported_authenticator"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal_error"
)

// AuthenticationBeginRequest starts an authentication ceremony.
type AuthenticationBeginRequest struct {
	Subject string `json:"subject"`
}
