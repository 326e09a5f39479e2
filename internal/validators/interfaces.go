// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks ceremony requests and journal content before
// they reach the verifier or the key service.
//
// Failures are the sentinel errors declared in this package; transports
// wrap them into a single invalid-request response.
package validators

import "context"

// Validator checks a value. Field names restrict the check to those fields
// where the implementation supports it.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
