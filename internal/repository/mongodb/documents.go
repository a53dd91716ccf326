package mongodb

import (
	"context"
	"errors"

	"doc-anchor/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateFingerprint means another record already holds the
	// fingerprint; two concurrent registrations of the same content
	// resolve their race on this error.
	ErrDuplicateFingerprint = errors.New("a document with this fingerprint already exists")

	ErrNotFound = errors.New("document not found")
)

func (b Repository) InsertDocument(ctx context.Context, doc model.Document) error {

	stored := newStoredDocument(doc)

	data, err := bson.Marshal(stored)
	if err != nil {
		return errors.New("failed to marshal the document: " + err.Error())
	}

	if _, err := b.documents().InsertOne(ctx, data); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateFingerprint
		}
		return errors.New("failed to insert a new document: " + err.Error())
	}

	return nil
}

func (b Repository) GetByFingerprint(ctx context.Context, fingerprint string) (model.Document, error) {

	filter := bson.M{
		"fingerprint": fingerprint,
	}

	var stored storedDocument
	if err := b.documents().FindOne(ctx, filter).Decode(&stored); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Document{}, ErrNotFound
		}
		return model.Document{}, errors.New("failed to find the document: " + err.Error())
	}

	return stored.toModel(), nil
}

func (b Repository) GetByOrg(ctx context.Context, orgID string) ([]model.Document, error) {
	return b.getDocuments(ctx, bson.M{"orgId": orgID})
}

func (b Repository) GetBySubject(ctx context.Context, subjectID string) ([]model.Document, error) {
	return b.getDocuments(ctx, bson.M{"subjectId": subjectID})
}

func (b Repository) getDocuments(ctx context.Context, filter bson.M) ([]model.Document, error) {
	cursor, err := b.documents().Find(ctx, filter)
	if err != nil {
		return nil, errors.New("failed to find the documents: " + err.Error())
	}

	var stored []storedDocument
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, errors.New("failed to get all documents from the cursor: " + err.Error())
	}

	docs := make([]model.Document, len(stored))
	for i, s := range stored {
		docs[i] = s.toModel()
	}

	return docs, nil
}
