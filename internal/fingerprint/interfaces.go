package fingerprint

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/fingerprint_mock.go -package=mock

// Provider yields the fingerprint hash of the current device. The session
// manager depends on this interface only.
type Provider interface {
	Generate(ctx context.Context) string
}

// Collector reads the raw value of one environmental signal. Returning an
// error (usually [ErrUnsupported]) degrades the signal to [Unsupported].
type Collector interface {
	Collect(ctx context.Context, signal Signal) (string, error)
}
