package cvs

import "errors"

var (
	ErrNotFound      = errors.New("cv not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid status")
)
