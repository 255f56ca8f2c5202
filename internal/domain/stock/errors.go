package stock

import "errors"

// ErrInvalidOperation marks a call rejected for bad arguments. State is never
// mutated when it is returned.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrSerialRequired is returned when a serialized item is restocked without
// serial numbers.
var ErrSerialRequired = errors.New("serialized items are restocked one serial at a time")
