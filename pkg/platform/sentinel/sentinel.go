package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and clients return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: key or record does not exist
//   - ErrExpired: token or session has expired
//   - ErrCorrupt: a stored value could not be decoded
//   - ErrInvalidState: entity in wrong state for requested operation
//   - ErrUnavailable: upstream temporarily unavailable
//   - ErrUnauthorized: upstream rejected our credentials
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrCorrupt      = errors.New("corrupt value")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)
