package controller

import "errors"

// Sentinel errors classified by server/*.go into CRI status codes via
// errors.Is, rather than string matching.
var (
	ErrNotFound           = errors.New("not found")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrInvalidArgument    = errors.New("invalid argument")
)
