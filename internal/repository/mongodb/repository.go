package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockroom/internal/domain/models"
)

// Repository defines the interface for the movement audit trail and daily
// snapshot storage.
type Repository interface {
	SaveMovement(ctx context.Context, mv models.Movement) error
	SaveDailySnapshot(ctx context.Context, snap models.DailySnapshot) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client        *mongo.Client
	dbName        string
	movementsColl string
	snapshotsColl string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:        client,
		dbName:        dbName,
		movementsColl: "movements",
		snapshotsColl: "daily_snapshots",
	}, nil
}

// SaveMovement appends a movement record to the audit collection.
func (r *MongoDBRepository) SaveMovement(ctx context.Context, mv models.Movement) error {
	collection := r.client.Database(r.dbName).Collection(r.movementsColl)
	_, err := collection.InsertOne(ctx, mv)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// SaveDailySnapshot saves a daily inventory snapshot to the database.
func (r *MongoDBRepository) SaveDailySnapshot(ctx context.Context, snap models.DailySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.snapshotsColl)
	_, err := collection.InsertOne(ctx, snap)
	if err != nil {
		return fmt.Errorf("failed to insert daily snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
