package ingest

import (
	"context"
	"sort"

	"github.com/kranthikiran885366/time-table-app/cron"
	sectionRepo "github.com/kranthikiran885366/time-table-app/database/repository/section"
	timetableRepo "github.com/kranthikiran885366/time-table-app/database/repository/timetable"
	"github.com/kranthikiran885366/time-table-app/models"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CommitMode selects how a section's existing schedule is treated on commit.
type CommitMode int

const (
	// CommitReplace deletes a section's existing entries before inserting.
	CommitReplace CommitMode = iota
	// CommitMerge appends, skipping entries that collide on the natural key.
	CommitMerge
)

// ParseCommitMode maps the request form value to a CommitMode; anything but
// "merge" means replace.
func ParseCommitMode(s string) CommitMode {
	if s == "merge" {
		return CommitMerge
	}
	return CommitReplace
}

// Committer applies validated entries to durable storage inside one
// transaction spanning every section in the batch. A failure while
// processing one section is recorded and the remaining sections still
// commit; only a transaction-level fault rolls everything back.
type Committer struct {
	Timetable timetableRepo.TimetableRepository
	Sections  sectionRepo.SectionRepository
	Queue     *asynq.Client
}

// BuildEntries converts parsed slot entries into persistable records,
// resolving natural keys to durable ids where the lookups allow. Unresolved
// references keep their literal text with an empty id, so the persisted
// record is always human-readable.
func BuildEntries(parsed []models.ParsedSlotEntry, lookups *Lookups) []models.TimetableEntry {
	entries := make([]models.TimetableEntry, 0, len(parsed))
	for _, p := range parsed {
		e := models.TimetableEntry{
			ID:          uuid.New().String(),
			SectionCode: p.SectionCode,
			Day:         p.Day,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			SubjectCode: p.SubjectCode,
			RoomNo:      p.RoomNo,
			FacultyName: p.FacultyName,
			ClassType:   p.ClassType,
			Duration:    p.Duration,
			Merged:      p.Merged,
			MergeCount:  p.MergeCount,
			Status:      models.StatusScheduled,
		}
		if lookups != nil {
			if s, ok := lookups.Sections[p.SectionCode]; ok {
				e.SectionID = s.ID
			}
			if s, ok := lookups.Subjects[p.SubjectCode]; ok {
				e.SubjectID = s.ID
			}
			if r, ok := lookups.Rooms[p.RoomNo]; ok {
				e.RoomID = r.ID
			}
			if f, ok := lookups.Faculty[p.FacultyName]; ok {
				e.FacultyID = f.ID
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Commit writes the batch. classTeachers optionally maps section codes to a
// class-teacher name persisted onto the section record in the same
// transaction.
func (c *Committer) Commit(ctx context.Context, entries []models.TimetableEntry, mode CommitMode, classTeachers map[string]string) (*models.SaveResult, error) {
	logger := utils.GetLogger()

	result := &models.SaveResult{
		PerSection: make(map[string]*models.SectionSaveStats),
	}

	bySection := make(map[string][]models.TimetableEntry)
	for _, e := range entries {
		bySection[e.SectionCode] = append(bySection[e.SectionCode], e)
	}
	codes := make([]string, 0, len(bySection))
	for code := range bySection {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	txn := func(sc mongo.SessionContext) error {
		for _, code := range codes {
			stats := &models.SectionSaveStats{}
			result.PerSection[code] = stats

			section, err := c.Sections.GetByCode(sc, code)
			if err != nil {
				return err
			}
			if section == nil {
				// Resolution ran before commit, so a missing section here is
				// an internal-consistency fault, not bad user input.
				result.Errors = append(result.Errors, models.SaveError{
					SectionCode: code,
					Message:     "section record vanished before commit",
				})
				continue
			}

			if mode == CommitReplace {
				deleted, err := c.Timetable.DeleteBySection(sc, code)
				if err != nil {
					return err
				}
				stats.Deleted = int(deleted)
				result.Deleted += int(deleted)
			}

			inserted, dups, err := c.Timetable.InsertMany(sc, bySection[code])
			if err != nil {
				logger.Error("Section commit failed, continuing with remaining sections",
					zap.String("section", code), zap.Error(err))
				result.Errors = append(result.Errors, models.SaveError{
					SectionCode: code,
					Message:     "failed to insert entries for section",
				})
				stats.Failed += len(bySection[code]) - inserted
				result.Failed += len(bySection[code]) - inserted
				result.Inserted += inserted
				stats.Inserted += inserted
				continue
			}
			stats.Inserted = inserted
			stats.Failed = len(dups)
			result.Inserted += inserted
			result.Failed += len(dups)
			result.Duplicates = append(result.Duplicates, dups...)

			if teacher := classTeachers[code]; teacher != "" {
				if err := c.Sections.SetClassTeacher(sc, code, teacher); err != nil {
					return err
				}
			}

			result.SectionsProcessed++
		}
		return nil
	}

	if err := c.Timetable.WithTransaction(ctx, txn); err != nil {
		logger.Error("Timetable commit transaction failed", zap.Error(err))
		return nil, &StorageError{Op: "timetable commit", Err: err}
	}

	c.afterCommit(ctx, codes)
	return result, nil
}

// afterCommit drops the stale per-section schedule cache and queues a
// background refresh for each committed section.
func (c *Committer) afterCommit(ctx context.Context, codes []string) {
	logger := utils.GetLogger()

	if cache := utils.GetCacheClient(); cache != nil {
		for _, code := range codes {
			if err := cache.Del(ctx, utils.ScheduleCacheKey(code)).Err(); err != nil {
				logger.Warn("Failed to invalidate schedule cache",
					zap.String("section", code), zap.Error(err))
			}
		}
	}

	if c.Queue != nil {
		for _, code := range codes {
			if err := cron.EnqueueScheduleRefresh(c.Queue, code); err != nil {
				logger.Warn("Failed to enqueue schedule refresh",
					zap.String("section", code), zap.Error(err))
			}
		}
	}
}
