package section

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

// SectionRepository defines persistence operations for sections.
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByCode(ctx context.Context, code string) (*models.Section, error)
	GetByCodes(ctx context.Context, codes []string) ([]models.Section, error)
	SetClassTeacher(ctx context.Context, code, teacher string) error
	GetAll(ctx context.Context) ([]models.Section, error)
}

// MongoSectionRepo is a MongoDB implementation of SectionRepository.
type MongoSectionRepo struct {
	coll *mongo.Collection
}

// NewMongoSectionRepo initializes the sections collection and its indexes.
func NewMongoSectionRepo() *MongoSectionRepo {
	coll := database.DB().Collection("sections")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sectionCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "department", Value: 1}, {Key: "year", Value: 1}},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create indexes on sections: %v\n", err)
	}

	return &MongoSectionRepo{coll: coll}
}

func (r *MongoSectionRepo) Create(ctx context.Context, section *models.Section) error {
	now := time.Now()
	section.CreatedAt = now
	section.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, section); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("section %s already exists: %w", section.SectionCode, err)
		}
		return fmt.Errorf("failed to insert section: %w", err)
	}
	return nil
}

func (r *MongoSectionRepo) GetByCode(ctx context.Context, code string) (*models.Section, error) {
	var section models.Section
	err := r.coll.FindOne(ctx, bson.M{"sectionCode": code}).Decode(&section)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch section %s: %w", code, err)
	}
	return &section, nil
}

func (r *MongoSectionRepo) GetByCodes(ctx context.Context, codes []string) ([]models.Section, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"sectionCode": bson.M{"$in": codes}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []models.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

func (r *MongoSectionRepo) SetClassTeacher(ctx context.Context, code, teacher string) error {
	update := bson.M{"$set": bson.M{"classTeacher": teacher, "updatedAt": time.Now()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"sectionCode": code}, update); err != nil {
		return fmt.Errorf("failed to set class teacher for %s: %w", code, err)
	}
	return nil
}

func (r *MongoSectionRepo) GetAll(ctx context.Context) ([]models.Section, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []models.Section
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}
