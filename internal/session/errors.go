package session

import "errors"

var (
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenAlreadyRotated = errors.New("refresh token already rotated")
	ErrFingerprintMismatch = errors.New("device fingerprint does not match the session")
	ErrSessionInactive     = errors.New("session is not active")
	ErrIdleTimeout         = errors.New("session ended after inactivity")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrUnknownActivity     = errors.New("unknown activity signal")
	ErrMissingUser         = errors.New("user id is required")
)
