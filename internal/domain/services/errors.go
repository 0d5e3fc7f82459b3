package services

import "errors"

// Sentinel errors surfaced by the workflow and registry services. The
// controllers map these onto the numeric error codes of internal/error/code.
var (
	// ErrInvalidTransition - the requested status edge is not in the graph.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrRequestNotFound - no access request with that id.
	ErrRequestNotFound = errors.New("access request not found")
	// ErrUnknownCondo - the referenced condo is missing or inactive.
	ErrUnknownCondo = errors.New("condominium not found or inactive")
	// ErrMissingOrigin - neither a resident nor a unit/block target was given.
	ErrMissingOrigin = errors.New("request must carry a resident or a unit/block target")
	// ErrRoleNotAllowed - the actor role cannot perform the operation.
	ErrRoleNotAllowed = errors.New("actor role not allowed")
	// ErrStoreUnavailable - the backing store failed; callers may retry.
	ErrStoreUnavailable = errors.New("backend store unavailable")
)
