// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server config
// names no HTTP and no gRPC address. The verifier refuses to start.
var errNoHandlersAreCreated = errors.New("no verifier handlers are created")
