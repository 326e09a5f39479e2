package client

import "errors"

var (
	ErrWrongPassword      = errors.New("wrong password")
	ErrNotAuthenticated   = errors.New("no active session")
	ErrInvalidRecoveryKey = errors.New("recovery key was not accepted")
	ErrMissingCredentials = errors.New("user id and password are required")
)
