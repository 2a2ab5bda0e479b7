package room

import (
	"context"
	"fmt"
	"time"

	"github.com/kranthikiran885366/time-table-app/database"
	"github.com/kranthikiran885366/time-table-app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoomRepository defines persistence operations for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByNumber(ctx context.Context, number string) (*models.Room, error)
	GetByNumbers(ctx context.Context, numbers []string) ([]models.Room, error)
}

// MongoRoomRepo is a MongoDB implementation of RoomRepository.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

// NewMongoRoomRepo initializes the rooms collection and its indexes.
func NewMongoRoomRepo() *MongoRoomRepo {
	coll := database.DB().Collection("rooms")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create indexes on rooms: %v\n", err)
	}

	return &MongoRoomRepo{coll: coll}
}

func (r *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("room %s already exists: %w", room.Number, err)
		}
		return fmt.Errorf("failed to insert room: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) GetByNumber(ctx context.Context, number string) (*models.Room, error) {
	var room models.Room
	err := r.coll.FindOne(ctx, bson.M{"number": number}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch room %s: %w", number, err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) GetByNumbers(ctx context.Context, numbers []string) ([]models.Room, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"number": bson.M{"$in": numbers}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}
