package app

import (
	"context"
	"errors"
	"strings"

	"doc-anchor/internal/hashing"
	"doc-anchor/internal/model"
	"doc-anchor/internal/repository/mongodb"

	"go.uber.org/zap"
)

// VerifyDocumentContent recomputes the fingerprint from the supplied
// bytes. This is the strong mode: it proves the caller holds content that
// matches an anchored fingerprint.
func (a App) VerifyDocumentContent(ctx context.Context, content []byte) (model.VerificationResult, error) {
	if len(content) == 0 {
		return model.VerificationResult{}, ValidationError{Message: "missing document content"}
	}

	return a.verify(ctx, hashing.Fingerprint(content))
}

// VerifyFingerprint trusts a caller-supplied fingerprint. Weaker mode: it
// only proves the fingerprint is anchored, not that the caller possesses
// matching content.
func (a App) VerifyFingerprint(ctx context.Context, fingerprint string) (model.VerificationResult, error) {
	fingerprint = strings.ToLower(strings.TrimSpace(fingerprint))
	if !hashing.IsFingerprint(fingerprint) {
		return model.VerificationResult{}, ValidationError{Message: "invalid fingerprint format"}
	}

	return a.verify(ctx, fingerprint)
}

func (a App) verify(ctx context.Context, fingerprint string) (model.VerificationResult, error) {

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	anchored, err := a.anchor.Exists(ctx, fingerprint)
	if err != nil {
		// "could not check" is never reported as "confirmed absent"
		a.logger.Warn("ledger existence check failed: "+err.Error(), zap.String("fingerprint", fingerprint))
		return model.VerificationResult{
			Status:      model.VerificationInconclusive,
			Reason:      "the ledger could not be consulted",
			Fingerprint: fingerprint,
		}, nil
	}

	if !anchored {
		return model.VerificationResult{
			Status:      model.VerificationNotAuthentic,
			Reason:      "fingerprint not anchored on the ledger",
			Fingerprint: fingerprint,
		}, nil
	}

	record, err := a.index.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, mongodb.ErrNotFound) {
			return model.VerificationResult{}, err
		}

		// the ledger alone certifies authenticity; enrich from the
		// registry entry when locally unindexed
		result := model.VerificationResult{
			Status:      model.VerificationAuthentic,
			Reason:      "anchored on the ledger, not locally indexed",
			Fingerprint: fingerprint,
		}
		if details, detailsErr := a.anchor.Details(ctx, fingerprint); detailsErr == nil {
			result.Record.DocType = details.DocType
		}

		return result, nil
	}

	return model.VerificationResult{
		Status:      model.VerificationAuthentic,
		Reason:      "document authentic",
		Fingerprint: fingerprint,
		Indexed:     true,
		Record:      record,
	}, nil
}
