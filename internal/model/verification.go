package model

type VerificationStatus string

const (
	// VerificationAuthentic means the ledger confirmed the fingerprint.
	VerificationAuthentic VerificationStatus = "authentic"
	// VerificationNotAuthentic is a confident negative: the ledger was
	// reachable and reported the fingerprint absent.
	VerificationNotAuthentic VerificationStatus = "not_authentic"
	// VerificationInconclusive means the ledger could not be consulted.
	// It must never be collapsed into a negative result.
	VerificationInconclusive VerificationStatus = "inconclusive"
)

func (status VerificationStatus) String() string {
	return string(status)
}

// VerificationResult is the tagged outcome of a verification request.
// Enrichment fields are only set for an authentic result that has a
// matching local record; Indexed distinguishes "anchored and cached here"
// from "anchored by another instance or cache lost".
type VerificationResult struct {
	Status VerificationStatus
	Reason string

	Fingerprint string
	Indexed     bool
	Record      Document
}

func (r VerificationResult) Authentic() bool {
	return r.Status == VerificationAuthentic
}
