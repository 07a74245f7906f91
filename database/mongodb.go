package database

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/KhurramShams/docuchat-be/types"
)

// NewMongoClient connects to MongoDB for ingest audit records. The pipeline
// itself never depends on Mongo being available; callers skip the record
// store entirely when no URI is configured.
func NewMongoClient(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{
			ObjectIDAsHexString: true,
		}))
	if err != nil {
		return nil, types.WrapError(types.ErrConfig, "failed to connect to MongoDB", err)
	}
	return client, nil
}
