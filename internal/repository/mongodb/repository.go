package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/brewcast/internal/domain/models"
)

// ProfileRepository defines read access to stored yeast profiles.
type ProfileRepository interface {
	ListProfiles(ctx context.Context) ([]models.YeastProfile, error)
}

// MongoDBRepository implements ProfileRepository for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri, dbName, collName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: collName,
	}, nil
}

// ListProfiles returns every yeast profile document ordered by key.
func (r *MongoDBRepository) ListProfiles(ctx context.Context) ([]models.YeastProfile, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query yeast profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []models.YeastProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode yeast profiles: %w", err)
	}
	return profiles, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
