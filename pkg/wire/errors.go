package wire

import "errors"

var (
	ErrInvalidSegment = errors.New("invalid wire segment")
	ErrUnknownGauge   = errors.New("unknown wire gauge")
)
