package timetable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sectionRepo "github.com/kranthikiran885366/time-table-app/database/repository/section"
	roomRepo "github.com/kranthikiran885366/time-table-app/database/repository/room"
	timetableRepo "github.com/kranthikiran885366/time-table-app/database/repository/timetable"
	"github.com/kranthikiran885366/time-table-app/models"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrScheduleConflict is returned by Create when the new entry collides with
// the existing schedule; the conflicts travel alongside it.
var ErrScheduleConflict = errors.New("schedule conflict")

// ErrInvalidEntry is returned when the submitted entry fails field validation.
var ErrInvalidEntry = errors.New("invalid timetable entry")

// TimetableService manages individual schedule entries and section reads.
type TimetableService interface {
	Create(ctx context.Context, entry *models.TimetableEntry) ([]models.Conflict, error)
	GetSectionSchedule(ctx context.Context, sectionCode string) ([]models.TimetableEntry, error)
	RefreshSectionCache(ctx context.Context, sectionCode string) error
}

// DefaultTimetableService is the production implementation.
type DefaultTimetableService struct {
	Repo     timetableRepo.TimetableRepository
	Sections sectionRepo.SectionRepository
	Rooms    roomRepo.RoomRepository
	Detector *Detector
}

// Create validates and persists one schedule entry. Every ERROR-severity
// conflict blocks this path, including the daily faculty workload ceiling
// (unlike bulk ingestion, where workload is advisory).
func (s *DefaultTimetableService) Create(ctx context.Context, entry *models.TimetableEntry) ([]models.Conflict, error) {
	logger := utils.GetLogger()

	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Duration == 0 {
		entry.Duration = 1
	}
	if entry.MergeCount == 0 {
		entry.MergeCount = 1
	}
	if entry.RoomNo == "" {
		entry.RoomNo = models.PlaceholderRoom
	}
	if entry.Status == "" {
		entry.Status = models.StatusScheduled
	}

	existing, err := s.Repo.GetByDay(ctx, entry.Day)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing schedule: %w", err)
	}

	sections := make(map[string]models.Section)
	if section, err := s.Sections.GetByCode(ctx, entry.SectionCode); err == nil && section != nil {
		sections[section.SectionCode] = *section
	}
	rooms := make(map[string]models.Room)
	if room, err := s.Rooms.GetByNumber(ctx, entry.RoomNo); err == nil && room != nil {
		rooms[room.Number] = *room
	}

	conflicts := s.Detector.Detect([]models.TimetableEntry{*entry}, existing, sections, rooms)
	var blocking []models.Conflict
	for _, c := range conflicts {
		if c.IsBlocking() {
			blocking = append(blocking, c)
		}
	}
	if len(blocking) > 0 {
		return conflicts, ErrScheduleConflict
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		return conflicts, fmt.Errorf("failed to create timetable entry: %w", err)
	}

	s.invalidateCache(ctx, entry.SectionCode)
	logger.Info("Created timetable entry",
		zap.String("section", entry.SectionCode),
		zap.String("day", entry.Day),
		zap.String("time", entry.StartTime+"-"+entry.EndTime),
		zap.String("subject", entry.SubjectCode),
	)
	return conflicts, nil
}

// GetSectionSchedule returns a section's persisted schedule, serving from the
// Redis cache when warm.
func (s *DefaultTimetableService) GetSectionSchedule(ctx context.Context, sectionCode string) ([]models.TimetableEntry, error) {
	logger := utils.GetLogger()

	if cache := utils.GetCacheClient(); cache != nil {
		cached, err := cache.Get(ctx, utils.ScheduleCacheKey(sectionCode)).Result()
		if err == nil {
			var entries []models.TimetableEntry
			if jsonErr := json.Unmarshal([]byte(cached), &entries); jsonErr == nil {
				return entries, nil
			}
			logger.Warn("Discarding corrupt schedule cache entry", zap.String("section", sectionCode))
		}
	}

	entries, err := s.Repo.GetBySection(ctx, sectionCode)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for %s: %w", sectionCode, err)
	}
	s.writeCache(ctx, sectionCode, entries)
	return entries, nil
}

// RefreshSectionCache rebuilds the cached schedule for one section; invoked
// by the background worker after a commit.
func (s *DefaultTimetableService) RefreshSectionCache(ctx context.Context, sectionCode string) error {
	entries, err := s.Repo.GetBySection(ctx, sectionCode)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule for %s: %w", sectionCode, err)
	}
	s.writeCache(ctx, sectionCode, entries)
	return nil
}

func (s *DefaultTimetableService) writeCache(ctx context.Context, sectionCode string, entries []models.TimetableEntry) {
	cache := utils.GetCacheClient()
	if cache == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, utils.ScheduleCacheKey(sectionCode), data, utils.ScheduleCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to write schedule cache",
			zap.String("section", sectionCode), zap.Error(err))
	}
}

func (s *DefaultTimetableService) invalidateCache(ctx context.Context, sectionCode string) {
	if cache := utils.GetCacheClient(); cache != nil {
		_ = cache.Del(ctx, utils.ScheduleCacheKey(sectionCode)).Err()
	}
}

func validateEntry(entry *models.TimetableEntry) error {
	if entry.SectionCode == "" || entry.SubjectCode == "" {
		return fmt.Errorf("%w: sectionCode and subjectCode are required", ErrInvalidEntry)
	}
	validDay := false
	for _, d := range models.Weekdays {
		if entry.Day == d {
			validDay = true
			break
		}
	}
	if !validDay {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidEntry, entry.Day)
	}
	start := toMinutes(entry.StartTime)
	end := toMinutes(entry.EndTime)
	if start < 0 || end < 0 {
		return fmt.Errorf("%w: times must be HH:MM", ErrInvalidEntry)
	}
	if end <= start {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidEntry)
	}
	return nil
}
