package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/KhurramShams/docuchat-be/types"
)

// DocumentRepo persists ingest records keyed by fingerprint. A record exists
// only for documents whose vectors were stored completely.
type DocumentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(collection *mongo.Collection) *DocumentRepo {
	return &DocumentRepo{
		collection: collection,
	}
}

func (r *DocumentRepo) SaveRecord(ctx context.Context, record *types.DocumentRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": record.Fingerprint}, record, opts)
	return err
}

func (r *DocumentRepo) GetRecord(ctx context.Context, fingerprint string) (*types.DocumentRecord, error) {
	var record types.DocumentRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": fingerprint}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *DocumentRepo) ListRecords(ctx context.Context) ([]types.DocumentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "indexed_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []types.DocumentRecord
	for cursor.Next(ctx) {
		var record types.DocumentRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, cursor.Err()
}
