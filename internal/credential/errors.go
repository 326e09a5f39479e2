package credential

import "errors"

var (
	ErrUnsupportedAuthenticator    = errors.New("authenticator of the requested kind is not available")
	ErrCeremonyCancelledOrTimedOut = errors.New("ceremony was cancelled or timed out")
	ErrCredentialNotFound          = errors.New("no credential found")
	ErrPossibleCloneDetected       = errors.New("signature counter did not increase, possible cloned authenticator")
	ErrChallengeExpiredOrConsumed  = errors.New("challenge expired or already consumed")
	ErrAlreadyRegistered           = errors.New("authenticator is already registered")
	ErrVerificationFailed          = errors.New("credential verification failed")
	ErrInvalidRequest              = errors.New("invalid ceremony request")
)
