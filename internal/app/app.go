package app

import (
	"context"
	"strings"
	"time"

	"doc-anchor/internal/ledger"
	"doc-anchor/internal/model"

	"go.uber.org/zap"
)

// AnchorClient is the ledger as seen by the orchestration: an append-only
// existence oracle plus a blocking registration call. The concrete ledger
// technology stays behind this interface.
type AnchorClient interface {
	Register(ctx context.Context, fingerprint string, docType string) (ledgerRef string, err error)
	Exists(ctx context.Context, fingerprint string) (bool, error)
	Details(ctx context.Context, fingerprint string) (ledger.Details, error)
	Info(ctx context.Context) (string, error)
}

// DocumentIndex is the local record store, a read-optimizing cache over
// ledger truth. It enforces fingerprint uniqueness on insert.
type DocumentIndex interface {
	InsertDocument(ctx context.Context, doc model.Document) error
	GetByFingerprint(ctx context.Context, fingerprint string) (model.Document, error)
	GetByOrg(ctx context.Context, orgID string) ([]model.Document, error)
	GetBySubject(ctx context.Context, subjectID string) ([]model.Document, error)
}

// BlobStore keeps the raw document bytes.
type BlobStore interface {
	Save(content []byte) (string, error)
	Load(path string) ([]byte, error)
	Remove(path string) error
}

type App struct {
	logger  *zap.Logger
	index   DocumentIndex
	anchor  AnchorClient
	blobs   BlobStore
	timeout time.Duration
}

func NewApp(logger *zap.Logger, index DocumentIndex, anchor AnchorClient, blobs BlobStore, timeout time.Duration) App {
	return App{
		logger:  logger,
		index:   index,
		anchor:  anchor,
		blobs:   blobs,
		timeout: timeout,
	}
}

func (a App) GetDocumentsByOrg(ctx context.Context, orgID string) ([]model.Document, error) {
	if orgID == "" {
		return nil, ValidationError{Message: "missing org ID"}
	}

	return a.index.GetByOrg(ctx, orgID)
}

func (a App) GetDocumentsBySubject(ctx context.Context, subjectID string) ([]model.Document, error) {
	if subjectID == "" {
		return nil, ValidationError{Message: "missing subject ID"}
	}

	return a.index.GetBySubject(ctx, subjectID)
}

// DownloadDocument resolves the local record and loads its blob.
func (a App) DownloadDocument(ctx context.Context, fingerprint string) (model.Document, []byte, error) {
	fingerprint = strings.ToLower(strings.TrimSpace(fingerprint))

	record, err := a.index.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		return model.Document{}, nil, err
	}

	content, err := a.blobs.Load(record.BlobPath)
	if err != nil {
		return model.Document{}, nil, err
	}

	return record, content, nil
}

// LedgerInfo reports the validator status, for the tech endpoint.
func (a App) LedgerInfo(ctx context.Context) (string, error) {
	return a.anchor.Info(ctx)
}
