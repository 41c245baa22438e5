package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and outbound clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: key or entity does not exist in the store
//   - ErrInvalidState: entity in wrong state for the requested operation
//   - ErrUnavailable: remote service unreachable or answered with a failure status
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
