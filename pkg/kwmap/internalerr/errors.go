package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrParse         = errors.New("parse error")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
)
