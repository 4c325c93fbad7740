package connect

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ ConnectionStore = (*MongoConnectionStore)(nil)

// MongoConnectionStore is a MongoDB-backed implementation of ConnectionStore.
type MongoConnectionStore struct {
	connections *mongo.Collection
}

// NewMongoConnectionStore creates a store backed by the given DB.
func NewMongoConnectionStore(db *mongo.Database) *MongoConnectionStore {
	return &MongoConnectionStore{
		connections: db.Collection("accounting_connections"),
	}
}

// Get fetches the connection record for a user.
func (s *MongoConnectionStore) Get(ctx context.Context, userID string) (ConnectionRecord, error) {
	var doc struct {
		UserID         string    `bson:"user_id"`
		OrganizationID string    `bson:"organization_id"`
		ConnectedAt    time.Time `bson:"connected_at"`
	}
	err := s.connections.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ConnectionRecord{}, ErrNotConnected
		}
		return ConnectionRecord{}, err
	}
	return ConnectionRecord{
		UserID:         doc.UserID,
		OrganizationID: doc.OrganizationID,
		ConnectedAt:    doc.ConnectedAt,
	}, nil
}

// Put upserts the connection record for a user.
func (s *MongoConnectionStore) Put(ctx context.Context, rec ConnectionRecord) error {
	if rec.ConnectedAt.IsZero() {
		rec.ConnectedAt = time.Now().UTC()
	}
	filter := bson.M{"user_id": rec.UserID}
	upd := bson.M{"$set": bson.M{
		"organization_id": rec.OrganizationID,
		"connected_at":    rec.ConnectedAt,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.connections.UpdateOne(ctx, filter, upd, opts)
	return err
}

// Delete removes the connection record for a user.
func (s *MongoConnectionStore) Delete(ctx context.Context, userID string) error {
	_, err := s.connections.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
