// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated means neither an HTTP nor a gRPC address was set.
var errNoServersAreCreated = errors.New("no verifier transport is configured")
