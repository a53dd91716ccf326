package mongodb

import (
	"time"

	"doc-anchor/internal/model"
)

type storedDocument struct {
	ID          string    `bson:"_id" json:"id"`
	OrgID       string    `bson:"orgId"`
	SubjectID   string    `bson:"subjectId"`
	DocType     string    `bson:"docType"`
	Fingerprint string    `bson:"fingerprint"`
	BlobPath    string    `bson:"blobPath"`
	LedgerRef   string    `bson:"ledgerRef"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func newStoredDocument(doc model.Document) storedDocument {
	return storedDocument{
		ID:          doc.ID,
		OrgID:       doc.OrgID,
		SubjectID:   doc.SubjectID,
		DocType:     doc.DocType,
		Fingerprint: doc.Fingerprint,
		BlobPath:    doc.BlobPath,
		LedgerRef:   doc.LedgerRef,
		CreatedAt:   doc.CreatedAt,
	}
}

func (stored storedDocument) toModel() model.Document {
	return model.Document{
		ID:          stored.ID,
		OrgID:       stored.OrgID,
		SubjectID:   stored.SubjectID,
		DocType:     stored.DocType,
		Fingerprint: stored.Fingerprint,
		BlobPath:    stored.BlobPath,
		LedgerRef:   stored.LedgerRef,
		CreatedAt:   stored.CreatedAt,
	}
}
