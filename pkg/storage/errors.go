package storage

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateAddress = errors.New("address already assigned on circuit")
	ErrDuplicateCircuit = errors.New("circuit already exists")
)
