package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	attempts := db.Collection("analysis_attempts")
	_, err := attempts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL: raw model output expires at ExpiresAt (must be Date)
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetName("ttl_expires_at").
				SetExpireAfterSeconds(0),
		},
		// Query helper: attempt history per upload
		{
			Keys:    bson.D{{Key: "cv_upload_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_upload_created"),
		},
	})
	return err
}
