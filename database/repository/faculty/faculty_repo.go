package faculty

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

// FacultyRepository defines persistence operations for faculty.
type FacultyRepository interface {
	Create(ctx context.Context, f *models.Faculty) error
	GetByName(ctx context.Context, name string) (*models.Faculty, error)
	GetByNames(ctx context.Context, names []string) ([]models.Faculty, error)
	GetByEmail(ctx context.Context, email string) (*models.Faculty, error)
}

// MongoFacultyRepo is a MongoDB implementation of FacultyRepository.
type MongoFacultyRepo struct {
	coll *mongo.Collection
}

// NewMongoFacultyRepo initializes the faculty collection and its indexes.
func NewMongoFacultyRepo() *MongoFacultyRepo {
	coll := database.DB().Collection("faculty")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "name", Value: 1}},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create indexes on faculty: %v\n", err)
	}

	return &MongoFacultyRepo{coll: coll}
}

func (r *MongoFacultyRepo) Create(ctx context.Context, f *models.Faculty) error {
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("faculty %s already exists: %w", f.Email, err)
		}
		return fmt.Errorf("failed to insert faculty: %w", err)
	}
	return nil
}

func (r *MongoFacultyRepo) GetByName(ctx context.Context, name string) (*models.Faculty, error) {
	var f models.Faculty
	err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch faculty %s: %w", name, err)
	}
	return &f, nil
}

func (r *MongoFacultyRepo) GetByNames(ctx context.Context, names []string) ([]models.Faculty, error) {
	if len(names) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch faculty: %w", err)
	}
	defer cursor.Close(ctx)

	var faculty []models.Faculty
	if err := cursor.All(ctx, &faculty); err != nil {
		return nil, fmt.Errorf("failed to decode faculty: %w", err)
	}
	return faculty, nil
}

func (r *MongoFacultyRepo) GetByEmail(ctx context.Context, email string) (*models.Faculty, error) {
	var f models.Faculty
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch faculty by email %s: %w", email, err)
	}
	return &f, nil
}
