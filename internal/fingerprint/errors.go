package fingerprint

import "errors"

// ErrUnsupported is returned by collectors for signals the environment
// cannot observe.
var ErrUnsupported = errors.New("signal unsupported")
