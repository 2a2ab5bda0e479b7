package ingest

import (
	"context"
	"fmt"

	"github.com/kranthikiran885366/time-table-app/config"
	timetableRepo "github.com/kranthikiran885366/time-table-app/database/repository/timetable"
	"github.com/kranthikiran885366/time-table-app/models"
	timetableService "github.com/kranthikiran885366/time-table-app/services/timetable"
	"github.com/kranthikiran885366/time-table-app/utils"

	"go.uber.org/zap"
)

// UploadOptions control a lenient-profile upload.
type UploadOptions struct {
	DryRun            bool
	Mode              CommitMode
	SkipConflictCheck bool
}

// IngestService is the spreadsheet ingestion pipeline: parse, resolve,
// detect conflicts, commit.
type IngestService interface {
	UploadLenient(ctx context.Context, data []byte, opts UploadOptions) (*models.UploadReport, error)
	UploadStrict(ctx context.Context, data []byte, dryRun bool) (*models.UploadReport, error)
	Template() ([]byte, error)
}

// DefaultIngestService is the production implementation.
type DefaultIngestService struct {
	Resolver  *Resolver
	Committer *Committer
	Timetable timetableRepo.TimetableRepository
	Detector  *timetableService.Detector
}

// UploadLenient runs the best-effort pipeline: unparseable cells are skipped
// with a record, missing reference entities are auto-created, and the caller
// picks replace or merge commit semantics. Blocking conflicts stop the
// commit unless explicitly bypassed; workload overruns are advisory here.
func (s *DefaultIngestService) UploadLenient(ctx context.Context, data []byte, opts UploadOptions) (*models.UploadReport, error) {
	logger := utils.GetLogger()

	wb, err := ParseWorkbook(data, ModeLenient)
	if err != nil {
		return nil, err
	}

	stats, lookups, err := s.Resolver.Resolve(ctx, wb, ModeLenient, !opts.DryRun)
	if err != nil {
		return nil, err
	}

	entries := BuildEntries(wb.Entries(), lookups)
	conflicts, err := s.detect(ctx, entries, wb, opts.Mode, lookups)
	if err != nil {
		return nil, err
	}

	report := buildReport(wb, conflicts)
	report.Created = stats
	report.DryRun = opts.DryRun

	blocking := timetableService.Blocking(conflicts)
	if len(blocking) > 0 && !opts.SkipConflictCheck {
		report.Success = false
		report.Message = fmt.Sprintf("%d blocking conflicts detected; nothing was saved", len(blocking))
		return report, nil
	}

	if opts.DryRun {
		report.Success = true
		report.Message = "dry run: parsed and validated, nothing was saved"
		report.Preview = preview(wb.Entries())
		return report, nil
	}

	saved, err := s.Committer.Commit(ctx, entries, opts.Mode, nil)
	if err != nil {
		return nil, err
	}
	report.Saved = saved
	report.Success = true
	report.Message = fmt.Sprintf("timetable uploaded: %d entries saved across %d sections",
		saved.Inserted, saved.SectionsProcessed)

	logger.Info("Lenient timetable upload committed",
		zap.Int("sections", saved.SectionsProcessed),
		zap.Int("inserted", saved.Inserted),
		zap.Int("deleted", saved.Deleted),
		zap.Int("failed", saved.Failed),
	)
	return report, nil
}

// UploadStrict runs the zero-tolerance pipeline: every entry must carry a
// real room and a mapping-table faculty, every section must pre-exist, and
// any blocking conflict refuses the upload. Commit is always full replace,
// and each sheet's class teacher is persisted onto its section.
func (s *DefaultIngestService) UploadStrict(ctx context.Context, data []byte, dryRun bool) (*models.UploadReport, error) {
	logger := utils.GetLogger()

	wb, err := ParseWorkbook(data, ModeStrict)
	if err != nil {
		return nil, err
	}
	if len(wb.MissingRooms) > 0 || len(wb.MissingFaculty) > 0 {
		return nil, &ValidationError{
			Message:        "strict upload requires every entry to carry a room and a mapped faculty",
			MissingRooms:   wb.MissingRooms,
			MissingFaculty: wb.MissingFaculty,
		}
	}

	stats, lookups, err := s.Resolver.Resolve(ctx, wb, ModeStrict, !dryRun)
	if err != nil {
		return nil, err
	}

	entries := BuildEntries(wb.Entries(), lookups)
	conflicts, err := s.detect(ctx, entries, wb, CommitReplace, lookups)
	if err != nil {
		return nil, err
	}

	report := buildReport(wb, conflicts)
	report.Created = stats
	report.DryRun = dryRun

	if blocking := timetableService.Blocking(conflicts); len(blocking) > 0 {
		report.Success = false
		report.Message = fmt.Sprintf("%d blocking conflicts detected; nothing was saved", len(blocking))
		return report, nil
	}

	if dryRun {
		report.Success = true
		report.Message = "dry run: parsed and validated, nothing was saved"
		report.Preview = preview(wb.Entries())
		return report, nil
	}

	classTeachers := make(map[string]string)
	for _, sheet := range wb.Sheets {
		if sheet.ClassTeacher != "" {
			classTeachers[sheet.SectionCode] = sheet.ClassTeacher
		}
	}

	saved, err := s.Committer.Commit(ctx, entries, CommitReplace, classTeachers)
	if err != nil {
		return nil, err
	}
	report.Saved = saved
	report.Success = true
	report.Message = fmt.Sprintf("strict timetable uploaded: %d entries saved across %d sections",
		saved.Inserted, saved.SectionsProcessed)

	logger.Info("Strict timetable upload committed",
		zap.Int("sections", saved.SectionsProcessed),
		zap.Int("inserted", saved.Inserted),
	)
	return report, nil
}

// detect loads the persisted schedule and runs conflict detection, excluding
// the persisted entries the commit itself will supersede. In replace mode
// that is every entry of a section being replaced (they are about to be
// deleted). In merge mode it is every entry sharing a candidate's natural
// key: those are rejected as duplicates at insert time, and comparing against
// them would make a re-upload of the same workbook conflict with itself.
func (s *DefaultIngestService) detect(ctx context.Context, entries []models.TimetableEntry, wb *WorkbookResult, mode CommitMode, lookups *Lookups) ([]models.Conflict, error) {
	existing, err := s.Timetable.GetAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "existing schedule load", Err: err}
	}

	var superseded func(e models.TimetableEntry) bool
	if mode == CommitMerge {
		keys := make(map[string]bool, len(entries))
		for _, e := range entries {
			keys[naturalKey(e)] = true
		}
		superseded = func(e models.TimetableEntry) bool { return keys[naturalKey(e)] }
	} else {
		replacing := make(map[string]bool)
		for _, code := range wb.SectionCodes() {
			replacing[code] = true
		}
		superseded = func(e models.TimetableEntry) bool { return replacing[e.SectionCode] }
	}

	kept := make([]models.TimetableEntry, 0, len(existing))
	for _, e := range existing {
		if !superseded(e) {
			kept = append(kept, e)
		}
	}

	return s.Detector.Detect(entries, kept, lookups.Sections, lookups.Rooms), nil
}

func naturalKey(e models.TimetableEntry) string {
	return e.SectionCode + "|" + e.Day + "|" + e.StartTime
}

func buildReport(wb *WorkbookResult, conflicts []models.Conflict) *models.UploadReport {
	var errorConflicts []models.Conflict
	for _, c := range conflicts {
		if c.Severity == models.SeverityError {
			errorConflicts = append(errorConflicts, c)
		}
	}
	warnings := timetableService.Warnings(conflicts)

	report := &models.UploadReport{
		Summary: models.UploadSummary{
			TotalSheets:     wb.TotalSheets,
			ProcessedSheets: len(wb.Sheets),
			TotalEntries:    wb.TotalEntries,
			SkippedCells:    wb.SkippedCells,
			LabsMerged:      wb.LabsMerged,
			Conflicts:       len(errorConflicts),
			Warnings:        len(warnings),
		},
		Conflicts:  errorConflicts,
		Warnings:   warnings,
		Errors:     wb.Errors,
		FacultyMap: make(map[string][]string),
	}

	for _, sheet := range wb.Sheets {
		report.Sections = append(report.Sections, models.SectionResult{
			SectionCode:  sheet.SectionCode,
			ClassTeacher: sheet.ClassTeacher,
			Entries:      len(sheet.Entries),
			ParseErrors:  sheet.Errors,
		})
		for code, names := range sheet.FacultyMap {
			report.FacultyMap[code] = names
		}
	}
	return report
}

func preview(entries []models.ParsedSlotEntry) []models.ParsedSlotEntry {
	limit := config.AppConfig.DryRunPreviewSize
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	return entries[:limit]
}
