// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the transport layer. Callers can match against them
// with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header is not of
	// the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidToken covers expired, badly signed and malformed tokens.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrForeignUser is returned when a request names a user other than
	// the token's subject.
	ErrForeignUser = errors.New("request for another user's credentials")

	ErrInvalidJSON = errors.New("invalid JSON was passed")
	ErrRateLimited = errors.New("too many ceremony requests")
)
