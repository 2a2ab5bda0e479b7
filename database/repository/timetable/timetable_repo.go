package timetable

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

// TimetableRepository defines persistence operations for schedule entries.
type TimetableRepository interface {
	Create(ctx context.Context, entry *models.TimetableEntry) error
	InsertMany(ctx context.Context, entries []models.TimetableEntry) (inserted int, duplicates []models.DuplicateError, err error)
	DeleteBySection(ctx context.Context, sectionCode string) (int64, error)
	GetBySection(ctx context.Context, sectionCode string) ([]models.TimetableEntry, error)
	GetByDay(ctx context.Context, day string) ([]models.TimetableEntry, error)
	GetAll(ctx context.Context) ([]models.TimetableEntry, error)
	WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error
}

// MongoTimetableRepo is a MongoDB implementation of TimetableRepository.
type MongoTimetableRepo struct {
	coll *mongo.Collection
}

// NewMongoTimetableRepo initializes the timetable collection and its indexes.
// The unique compound index on (sectionCode, day, startTime) is the natural-key
// guard the ingestion pipeline relies on.
func NewMongoTimetableRepo() *MongoTimetableRepo {
	coll := database.DB().Collection("timetable_entries")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "sectionCode", Value: 1},
				{Key: "day", Value: 1},
				{Key: "startTime", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "day", Value: 1}, {Key: "startTime", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "facultyName", Value: 1}, {Key: "day", Value: 1}},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		fmt.Printf("Warning: failed to create indexes on timetable_entries: %v\n", err)
	}

	return &MongoTimetableRepo{coll: coll}
}

func (r *MongoTimetableRepo) Create(ctx context.Context, entry *models.TimetableEntry) error {
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("slot %s %s %s already occupied: %w",
				entry.SectionCode, entry.Day, entry.StartTime, err)
		}
		return fmt.Errorf("failed to insert timetable entry: %w", err)
	}
	return nil
}

// InsertMany inserts entries unordered so one natural-key collision does not
// abort the rest of the batch. Duplicate-key write errors are reported
// per row; any other write error is returned as a hard failure.
func (r *MongoTimetableRepo) InsertMany(ctx context.Context, entries []models.TimetableEntry) (int, []models.DuplicateError, error) {
	if len(entries) == 0 {
		return 0, nil, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(entries))
	for i := range entries {
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		docs = append(docs, entries[i])
	}

	opts := options.InsertMany().SetOrdered(false)
	res, err := r.coll.InsertMany(ctx, docs, opts)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err == nil {
		return inserted, nil, nil
	}

	bwe, ok := err.(mongo.BulkWriteException)
	if !ok {
		return inserted, nil, fmt.Errorf("bulk insert of timetable entries failed: %w", err)
	}

	var duplicates []models.DuplicateError
	for _, we := range bwe.WriteErrors {
		if !isDuplicateWriteError(we) {
			return inserted, duplicates, fmt.Errorf("bulk insert write error at index %d: %s", we.Index, we.Message)
		}
		detail := we.Message
		sectionCode := ""
		if we.Index >= 0 && we.Index < len(entries) {
			e := entries[we.Index]
			sectionCode = e.SectionCode
			detail = fmt.Sprintf("%s %s %s (%s)", e.Day, e.StartTime, e.SubjectCode, e.SectionCode)
		}
		duplicates = append(duplicates, models.DuplicateError{SectionCode: sectionCode, Detail: detail})
	}
	inserted = len(entries) - len(bwe.WriteErrors)
	return inserted, duplicates, nil
}

func isDuplicateWriteError(we mongo.BulkWriteError) bool {
	return we.Code == 11000 || we.Code == 11001 || we.Code == 12582
}

func (r *MongoTimetableRepo) DeleteBySection(ctx context.Context, sectionCode string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"sectionCode": sectionCode})
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries for %s: %w", sectionCode, err)
	}
	return res.DeletedCount, nil
}

func (r *MongoTimetableRepo) GetBySection(ctx context.Context, sectionCode string) ([]models.TimetableEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"sectionCode": sectionCode}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", sectionCode, err)
	}
	defer cursor.Close(ctx)

	var entries []models.TimetableEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode schedule for %s: %w", sectionCode, err)
	}
	return entries, nil
}

func (r *MongoTimetableRepo) GetByDay(ctx context.Context, day string) ([]models.TimetableEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"day": day}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for %s: %w", day, err)
	}
	defer cursor.Close(ctx)

	var entries []models.TimetableEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries for %s: %w", day, err)
	}
	return entries, nil
}

func (r *MongoTimetableRepo) GetAll(ctx context.Context) ([]models.TimetableEntry, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list timetable entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.TimetableEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode timetable entries: %w", err)
	}
	return entries, nil
}

// WithTransaction runs fn inside a mongo session transaction. The session
// context is passed down so every repository call made by fn joins the
// transaction.
func (r *MongoTimetableRepo) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("timetable transaction failed: %w", err)
	}
	return nil
}
