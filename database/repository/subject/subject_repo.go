package subject

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

// SubjectRepository defines persistence operations for subjects.
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByCode(ctx context.Context, code string) (*models.Subject, error)
	GetByCodes(ctx context.Context, codes []string) ([]models.Subject, error)
}

// MongoSubjectRepo is a MongoDB implementation of SubjectRepository.
type MongoSubjectRepo struct {
	coll *mongo.Collection
}

// NewMongoSubjectRepo initializes the subjects collection and its indexes.
func NewMongoSubjectRepo() *MongoSubjectRepo {
	coll := database.DB().Collection("subjects")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create indexes on subjects: %v\n", err)
	}

	return &MongoSubjectRepo{coll: coll}
}

func (r *MongoSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	now := time.Now()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, subject); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("subject %s already exists: %w", subject.Code, err)
		}
		return fmt.Errorf("failed to insert subject: %w", err)
	}
	return nil
}

func (r *MongoSubjectRepo) GetByCode(ctx context.Context, code string) (*models.Subject, error) {
	var subject models.Subject
	err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch subject %s: %w", code, err)
	}
	return &subject, nil
}

func (r *MongoSubjectRepo) GetByCodes(ctx context.Context, codes []string) ([]models.Subject, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"code": bson.M{"$in": codes}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subjects: %w", err)
	}
	defer cursor.Close(ctx)

	var subjects []models.Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, fmt.Errorf("failed to decode subjects: %w", err)
	}
	return subjects, nil
}
