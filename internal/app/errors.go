package app

import "doc-anchor/internal/model"

// AlreadyRegisteredError is a conflict outcome, not a failure: the content
// is already anchored. Existing carries the local record when the index
// holds one; Indexed is false when the fingerprint is anchored on the
// ledger but not cached here.
type AlreadyRegisteredError struct {
	Fingerprint string
	Existing    model.Document
	Indexed     bool
}

func (e AlreadyRegisteredError) Error() string {
	return "a document with fingerprint " + e.Fingerprint + " is already registered"
}

// ValidationError marks caller mistakes; surfaced as a client error and
// never retried.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
