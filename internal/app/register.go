package app

import (
	"context"
	"errors"
	"time"

	"doc-anchor/internal/hashing"
	"doc-anchor/internal/ledger"
	"doc-anchor/internal/model"
	"doc-anchor/internal/repository/mongodb"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	OrgID     string
	SubjectID string
	DocType   string
	Content   []byte
}

// RegisterDocument fingerprints the content, anchors the fingerprint on
// the ledger and caches the record locally. The ledger write happens
// before any durable local write: blob and record exist only for content
// the ledger has confirmed.
func (a App) RegisterDocument(ctx context.Context, req RegisterRequest) (model.Document, error) {

	if len(req.Content) == 0 {
		return model.Document{}, ValidationError{Message: "missing document content"}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	fingerprint := hashing.Fingerprint(req.Content)

	doc := model.Document{
		ID:          uuid.NewString(),
		OrgID:       req.OrgID,
		SubjectID:   req.SubjectID,
		DocType:     req.DocType,
		Fingerprint: fingerprint,
	}
	if err := doc.Validate(); err != nil {
		return model.Document{}, ValidationError{Message: err.Error()}
	}

	// the pre-check is an optimization; the unique index decides the race
	existing, err := a.index.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		return model.Document{}, AlreadyRegisteredError{Fingerprint: fingerprint, Existing: existing, Indexed: true}
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return model.Document{}, err
	}

	a.logger.Info("anchoring document", zap.String("fingerprint", fingerprint), zap.String("docType", req.DocType), zap.String("orgID", req.OrgID))

	ledgerRef, err := a.anchor.Register(ctx, fingerprint, req.DocType)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyAnchored) {
			return model.Document{}, a.alreadyRegistered(ctx, fingerprint)
		}
		return model.Document{}, err
	}

	blobPath, err := a.blobs.Save(req.Content)
	if err != nil {
		return model.Document{}, err
	}

	doc.LedgerRef = ledgerRef
	doc.BlobPath = blobPath
	doc.CreatedAt = time.Now().UTC()

	if err := a.index.InsertDocument(ctx, doc); err != nil {
		// the blob is orphaned now, remove it before reporting
		removeErr := a.blobs.Remove(blobPath)

		if errors.Is(err, mongodb.ErrDuplicateFingerprint) {
			// a concurrent registration of the same content won the race
			if removeErr != nil {
				a.logger.Error("failed to remove the orphaned blob: "+removeErr.Error(), zap.String("blobPath", blobPath))
			}
			return model.Document{}, a.alreadyRegistered(ctx, fingerprint)
		}

		return model.Document{}, multierr.Append(err, removeErr)
	}

	a.logger.Info("document registered", zap.String("fingerprint", fingerprint), zap.String("ledgerRef", ledgerRef), zap.String("id", doc.ID))

	return doc, nil
}

func (a App) alreadyRegistered(ctx context.Context, fingerprint string) error {
	existing, err := a.index.GetByFingerprint(ctx, fingerprint)
	if err == nil {
		return AlreadyRegisteredError{Fingerprint: fingerprint, Existing: existing, Indexed: true}
	}
	if errors.Is(err, mongodb.ErrNotFound) {
		// anchored on the ledger, registered by another instance or the
		// local cache was lost
		return AlreadyRegisteredError{Fingerprint: fingerprint}
	}

	return err
}
