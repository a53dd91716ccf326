package app_test

import (
	"context"
	"fmt"

	"doc-anchor/internal/ledger"
	"doc-anchor/internal/model"
	"doc-anchor/internal/repository/mongodb"
)

type fakeIndex struct {
	docs map[string]model.Document

	insertErr error
	// raceWinner simulates a concurrent registration that wins between
	// the pre-check and the insert
	raceWinner *model.Document
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]model.Document{}}
}

func (f *fakeIndex) InsertDocument(ctx context.Context, doc model.Document) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.raceWinner != nil {
		f.docs[f.raceWinner.Fingerprint] = *f.raceWinner
		f.raceWinner = nil
		return mongodb.ErrDuplicateFingerprint
	}
	if _, ok := f.docs[doc.Fingerprint]; ok {
		return mongodb.ErrDuplicateFingerprint
	}
	f.docs[doc.Fingerprint] = doc
	return nil
}

func (f *fakeIndex) GetByFingerprint(ctx context.Context, fingerprint string) (model.Document, error) {
	doc, ok := f.docs[fingerprint]
	if !ok {
		return model.Document{}, mongodb.ErrNotFound
	}
	return doc, nil
}

func (f *fakeIndex) GetByOrg(ctx context.Context, orgID string) ([]model.Document, error) {
	var docs []model.Document
	for _, doc := range f.docs {
		if doc.OrgID == orgID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (f *fakeIndex) GetBySubject(ctx context.Context, subjectID string) ([]model.Document, error) {
	var docs []model.Document
	for _, doc := range f.docs {
		if doc.SubjectID == subjectID {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

type fakeAnchor struct {
	anchored map[string]ledger.Details

	registerErr error
	existsErr   error
	// forceAbsent makes Exists deny every fingerprint while the query
	// itself succeeds
	forceAbsent   bool
	registerCalls int
}

func newFakeAnchor() *fakeAnchor {
	return &fakeAnchor{anchored: map[string]ledger.Details{}}
}

func (f *fakeAnchor) Register(ctx context.Context, fingerprint string, docType string) (string, error) {
	f.registerCalls++
	if f.registerErr != nil {
		return "", f.registerErr
	}
	if _, ok := f.anchored[fingerprint]; ok {
		return "", fmt.Errorf("%w: %s", ledger.ErrAlreadyAnchored, fingerprint)
	}
	f.anchored[fingerprint] = ledger.Details{DocType: docType, Registrant: "02test"}
	return "txn-" + fingerprint[:12], nil
}

func (f *fakeAnchor) Exists(ctx context.Context, fingerprint string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.forceAbsent {
		return false, nil
	}
	_, ok := f.anchored[fingerprint]
	return ok, nil
}

func (f *fakeAnchor) Details(ctx context.Context, fingerprint string) (ledger.Details, error) {
	details, ok := f.anchored[fingerprint]
	if !ok {
		return ledger.Details{}, ledger.ErrNotFound
	}
	return details, nil
}

func (f *fakeAnchor) Info(ctx context.Context) (string, error) {
	return `{"status": "OK"}`, nil
}

type fakeBlobs struct {
	files   map[string][]byte
	saveErr error
	counter int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{files: map[string][]byte{}}
}

func (f *fakeBlobs) Save(content []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.counter++
	path := fmt.Sprintf("/blobs/doc_%d.bin", f.counter)
	f.files[path] = content
	return path, nil
}

func (f *fakeBlobs) Load(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", path)
	}
	return content, nil
}

func (f *fakeBlobs) Remove(path string) error {
	delete(f.files, path)
	return nil
}
