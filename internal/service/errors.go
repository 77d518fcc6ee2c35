package service

import "errors"

var (
	// ErrNotVisibleAfterWrite means a write succeeded but the record could not be read back
	ErrNotVisibleAfterWrite = errors.New("record not visible after write")
)
