package errors

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")

	ErrStallOwnedElsewhere = errors.New("stall belongs to another event")

	ErrDuplicateStallID = errors.New("duplicate stall id in payload")
)
