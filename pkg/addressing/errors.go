package addressing

import "errors"

var (
	// ErrCircuitFull means no address in [1, max_devices] is free. Callers
	// surface this to the user; it is expected during dense layouts.
	ErrCircuitFull = errors.New("no addresses available on circuit")

	ErrCircuitNotFound = errors.New("circuit not found")
	ErrDeviceNotFound  = errors.New("device address not found")
)
