package repository

import "errors"

// Sentinel errors returned by the stores.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
