package adapter

import "errors"

var (
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("too many requests")
	ErrServer       = errors.New("verifier server error")
	ErrNoAddress    = errors.New("empty verifier address")
)
