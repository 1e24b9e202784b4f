package store

import "errors"

// Sentinel errors returned by the stores so that handlers can tell apart
// duplicate delivery, missing documents and already-terminal transitions
// from genuine store failures.
var (
	ErrDuplicateTransaction = errors.New("transaction already recorded")
	ErrNotFound             = errors.New("document not found")
	ErrAlreadyResolved      = errors.New("payment already resolved")
)
