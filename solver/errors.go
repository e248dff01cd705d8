package solver

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes that no retry can fix: a missing
	// word passed to scoring, or a board holding something other than A-Z.
	ErrInvalidArgument = errors.New("invalid argument")
)
