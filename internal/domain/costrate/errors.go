package costrate

import "errors"

var (
	ErrNegativeRate = errors.New("cost rate must be non-negative")
	ErrInvalidRate  = errors.New("cost rate must be a number")
)
