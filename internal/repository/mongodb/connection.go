package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const documentsCollection = "documents"

type Repository struct {
	// connection closer function
	Disconnect func()

	client *mongo.Client
	dbName string
	logger *zap.Logger
}

func NewConnection(logger *zap.Logger, uri string, dbName string) (Repository, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("db connection failed", zap.String("uri", uri))
		return Repository{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return Repository{}, err
	}

	closer := func() {
		if err = client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect the DB: " + err.Error())
		}
	}

	return Repository{
		Disconnect: closer,
		client:     client,
		dbName:     dbName,
		logger:     logger,
	}, nil

}

func (b Repository) documents() *mongo.Collection {
	return b.client.Database(b.dbName).Collection(documentsCollection)
}

// EnsureIndexes creates the unique index on fingerprint. The index is the
// authoritative guard for the "content appears exactly once" invariant;
// the registrar's pre-check is only an optimization.
func (b Repository) EnsureIndexes(ctx context.Context) error {
	_, err := b.documents().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "fingerprint", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return err
}
