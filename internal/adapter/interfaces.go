// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to a remote credential verifier over HTTP.
//
// [HTTPVerifier] implements [credential.Verifier], so the ceremony driver
// works the same against the in-process verifier and a remote one. Error
// responses are mapped back onto the credential package's sentinel errors
// by mapHTTPError, so callers keep using [errors.Is].
package adapter

import (
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
)

var _ credential.Verifier = (*HTTPVerifier)(nil)

// TokenSource returns the bearer token for authenticated requests, or "" when
// there is none.
type TokenSource func() string
