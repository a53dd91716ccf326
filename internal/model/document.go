package model

import (
	"errors"
	"time"

	"doc-anchor/internal/hashing"
)

// Document is the locally cached record of a fingerprint anchored on the
// ledger. It is created exactly once on successful registration and never
// mutated afterwards; the ledger remains the source of truth.
type Document struct {
	ID        string
	OrgID     string
	SubjectID string

	// DocType is a free-text classification, e.g. "DIPLOMA" or "PRESCRIPTION".
	DocType string

	Fingerprint string
	BlobPath    string
	LedgerRef   string

	CreatedAt time.Time
}

func (doc Document) Validate() error {
	if doc.OrgID == "" {
		return errors.New("missing org ID")
	}
	if doc.SubjectID == "" {
		return errors.New("missing subject ID")
	}
	if doc.DocType == "" {
		return errors.New("missing doc type")
	}
	if !hashing.IsFingerprint(doc.Fingerprint) {
		return errors.New("invalid fingerprint: " + doc.Fingerprint)
	}

	return nil
}
