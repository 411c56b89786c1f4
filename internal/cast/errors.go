package cast

import "errors"

// Sentinel errors surfaced by Parse. Wrapped with fmt.Errorf("%w", ...) so
// callers can errors.Is against them while still seeing the offending line.
var (
	ErrInvalidFormat     = errors.New("cast: invalid format")
	ErrUnsupportedVersion = errors.New("cast: unsupported version")
)
