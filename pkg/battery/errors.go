package battery

import "errors"

var (
	ErrInvalidBackupHours = errors.New("backup hours must be positive")
	ErrInvalidDerate      = errors.New("derating factor must be in (0, 1]")
)
