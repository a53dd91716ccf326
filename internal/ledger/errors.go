package ledger

import "errors"

var (
	// ErrUnavailable covers transport failures and confirmation timeouts.
	// A caller must treat it as "could not check", never as a negative.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrRejected means the validator refused the transaction.
	ErrRejected = errors.New("ledger rejected the transaction")

	// ErrAlreadyAnchored is a rejection whose cause is a duplicate anchor:
	// the fingerprint is already present in the registry state.
	ErrAlreadyAnchored = errors.New("fingerprint already anchored")

	// ErrNotFound means the registry holds no entry for the fingerprint.
	ErrNotFound = errors.New("no registry entry for the fingerprint")
)
