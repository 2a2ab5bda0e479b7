package ingest

import (
	"context"
	"testing"

	"github.com/kranthikiran885366/time-table-app/models"
	timetableService "github.com/kranthikiran885366/time-table-app/services/timetable"
)

func newTestService(sections ...models.Section) (*DefaultIngestService, *fakeTimetableRepo, *fakeSectionRepo) {
	resolver, secRepo, _, _, _ := mustResolver(sections...)
	ttRepo := newFakeTimetableRepo()
	svc := &DefaultIngestService{
		Resolver: resolver,
		Committer: &Committer{
			Timetable: ttRepo,
			Sections:  secRepo,
		},
		Timetable: ttRepo,
		Detector: &timetableService.Detector{
			LunchStart:      "12:30",
			LunchEnd:        "13:30",
			MaxDailyMinutes: 480,
		},
	}
	return svc, ttRepo, secRepo
}

func TestUploadLenientEndToEnd(t *testing.T) {
	svc, ttRepo, _ := newTestService()
	data := twoSectionWorkbook(t)

	report, err := svc.UploadLenient(context.Background(), data, UploadOptions{Mode: CommitReplace})
	requireNoError(t, err)

	if !report.Success {
		t.Fatalf("upload failed: %s (conflicts %+v)", report.Message, report.Conflicts)
	}
	if report.Summary.Conflicts != 0 {
		t.Errorf("conflicts = %d, want 0", report.Summary.Conflicts)
	}
	if report.Summary.LabsMerged != 1 {
		t.Errorf("labsMerged = %d, want 1", report.Summary.LabsMerged)
	}
	if report.Saved == nil || report.Saved.Inserted != 4 {
		t.Fatalf("saved = %+v, want 4 inserted", report.Saved)
	}

	sec1, err := ttRepo.GetBySection(context.Background(), "SEC1")
	requireNoError(t, err)
	if len(sec1) != 2 {
		t.Fatalf("SEC1 persisted %d entries, want 2", len(sec1))
	}
	var theory, lab *models.TimetableEntry
	for i := range sec1 {
		switch sec1[i].ClassType {
		case models.ClassTypeTheory:
			theory = &sec1[i]
		case models.ClassTypeLab:
			lab = &sec1[i]
		}
	}
	if theory == nil || lab == nil {
		t.Fatalf("missing theory or lab entry: %+v", sec1)
	}
	if theory.SubjectCode != "CN" || theory.StartTime != "09:00" || theory.EndTime != "10:00" || theory.RoomNo != "407" {
		t.Errorf("theory entry = %+v", theory)
	}
	if lab.SubjectCode != "CD-LAB" || lab.StartTime != "10:00" || lab.EndTime != "12:00" || lab.Duration != 2 || lab.RoomNo != "512" {
		t.Errorf("lab entry = %+v", lab)
	}
	if theory.FacultyName != "Dr. X" || lab.FacultyName != "Dr. Y" {
		t.Errorf("faculty: theory=%q lab=%q, want Dr. X / Dr. Y", theory.FacultyName, lab.FacultyName)
	}
	if theory.SectionID == "" || theory.SubjectID == "" || theory.RoomID == "" || theory.FacultyID == "" {
		t.Errorf("resolved ids missing on persisted entry: %+v", theory)
	}
}

// Replace twice with the same input leaves the persisted set unchanged.
func TestUploadReplaceIdempotent(t *testing.T) {
	svc, ttRepo, _ := newTestService()
	data := twoSectionWorkbook(t)
	ctx := context.Background()

	first, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitReplace})
	requireNoError(t, err)
	if !first.Success {
		t.Fatalf("first upload failed: %s", first.Message)
	}
	before, _ := ttRepo.GetAll(ctx)

	second, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitReplace})
	requireNoError(t, err)
	if !second.Success {
		t.Fatalf("second replace failed: %s (conflicts %+v)", second.Message, second.Conflicts)
	}
	if second.Saved.Deleted != len(before) {
		t.Errorf("second replace deleted %d, want %d", second.Saved.Deleted, len(before))
	}

	after, _ := ttRepo.GetAll(ctx)
	if len(after) != len(before) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	key := func(e models.TimetableEntry) string {
		return e.SectionCode + "|" + e.Day + "|" + e.StartTime + "|" + e.EndTime + "|" + e.SubjectCode + "|" + e.RoomNo
	}
	want := make(map[string]bool)
	for _, e := range before {
		want[key(e)] = true
	}
	for _, e := range after {
		if !want[key(e)] {
			t.Errorf("unexpected entry after second replace: %s", key(e))
		}
	}
}

// Merge twice with the same input: the repeat must not conflict with its own
// persisted twin, inserts nothing, and reports every row as a duplicate.
func TestUploadMergeDuplicates(t *testing.T) {
	svc, ttRepo, _ := newTestService()
	data := twoSectionWorkbook(t)
	ctx := context.Background()

	first, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitMerge})
	requireNoError(t, err)
	if !first.Success || first.Saved.Inserted != 4 {
		t.Fatalf("first merge: %+v", first.Saved)
	}

	second, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitMerge})
	requireNoError(t, err)
	if !second.Success {
		t.Fatalf("second merge blocked: %s (conflicts %+v)", second.Message, second.Conflicts)
	}
	if second.Summary.Conflicts != 0 {
		t.Errorf("second merge reported %d conflicts, want 0: %+v", second.Summary.Conflicts, second.Conflicts)
	}
	if second.Saved.Inserted != 0 {
		t.Errorf("second merge inserted %d, want 0", second.Saved.Inserted)
	}
	if second.Saved.Failed != 4 {
		t.Errorf("second merge failed = %d, want 4 (all duplicates)", second.Saved.Failed)
	}
	if len(second.Saved.Duplicates) != 4 {
		t.Errorf("duplicates = %+v, want 4 records", second.Saved.Duplicates)
	}
	if len(ttRepo.entries) != 4 {
		t.Errorf("persisted %d entries after second merge, want 4", len(ttRepo.entries))
	}
}

// Merge mode must still catch real collisions with entries it does not
// supersede: same slot key absent, but same room occupied.
func TestUploadMergeStillDetectsForeignConflicts(t *testing.T) {
	svc, ttRepo, _ := newTestService()
	ctx := context.Background()

	seeded := models.TimetableEntry{
		SectionCode: "SEC9", Day: "Monday", StartTime: "09:00", EndTime: "10:00",
		SubjectCode: "OS", RoomNo: "407", FacultyName: "Dr. W",
		ClassType: models.ClassTypeTheory, Duration: 1,
	}
	requireNoError(t, ttRepo.Create(ctx, &seeded))

	data := buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00"},
			{"Monday", "CN-407"},
			{"CN", "Dr. X"},
		},
	}, []string{"SEC1"})

	report, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitMerge})
	requireNoError(t, err)
	if report.Success {
		t.Fatal("merge into an occupied room must be blocked")
	}
	if report.Summary.Conflicts == 0 {
		t.Error("room conflict missing from report")
	}
}

func TestUploadDryRunWritesNothing(t *testing.T) {
	svc, ttRepo, secRepo := newTestService()
	data := twoSectionWorkbook(t)

	report, err := svc.UploadLenient(context.Background(), data, UploadOptions{DryRun: true, Mode: CommitReplace})
	requireNoError(t, err)

	if !report.Success || !report.DryRun {
		t.Fatalf("dry run report: %+v", report)
	}
	if len(report.Preview) == 0 {
		t.Error("dry run must include a preview")
	}
	if report.Saved != nil {
		t.Error("dry run must not report persistence stats")
	}
	if len(ttRepo.entries) != 0 || len(secRepo.sections) != 0 {
		t.Error("dry run must not write anything")
	}
}

func TestUploadConflictBlocksCommit(t *testing.T) {
	// Two sections in the same room at the same time.
	data := buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00"},
			{"Monday", "CN-407"},
			{"CN", "Dr. X"},
		},
		"SEC2": {
			{"Day", "9.00-10.00"},
			{"Monday", "OS-407"},
			{"OS", "Dr. W"},
		},
	}, []string{"SEC1", "SEC2"})

	svc, ttRepo, _ := newTestService()
	ctx := context.Background()

	report, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitReplace})
	requireNoError(t, err)
	if report.Success {
		t.Fatal("upload with a room conflict must not succeed")
	}
	if report.Summary.Conflicts == 0 {
		t.Error("conflict count missing from report")
	}
	if len(ttRepo.entries) != 0 {
		t.Error("blocked upload must not persist entries")
	}

	// Explicit bypass commits anyway.
	bypassed, err := svc.UploadLenient(ctx, data, UploadOptions{Mode: CommitReplace, SkipConflictCheck: true})
	requireNoError(t, err)
	if !bypassed.Success {
		t.Fatalf("bypassed upload failed: %s", bypassed.Message)
	}
	if len(ttRepo.entries) != 2 {
		t.Errorf("bypassed upload persisted %d entries, want 2", len(ttRepo.entries))
	}
}

func TestUploadStrictRequiresFacultyMapping(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00"},
			{"Monday", "CN-407"},
		},
	}, []string{"SEC1"})

	svc, _, _ := newTestService(models.Section{ID: "s1", SectionCode: "SEC1"})
	_, err := svc.UploadStrict(context.Background(), data, false)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.MissingFaculty) == 0 {
		t.Errorf("missingFaculty empty: %+v", ve)
	}
}

func TestUploadStrictMissingSections(t *testing.T) {
	data := twoSectionWorkbook(t)
	svc, _, _ := newTestService(models.Section{ID: "s1", SectionCode: "SEC1"})

	_, err := svc.UploadStrict(context.Background(), data, false)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.MissingSections) != 1 || ve.MissingSections[0] != "SEC2" {
		t.Errorf("missingSections = %v, want [SEC2]", ve.MissingSections)
	}
}

func TestUploadStrictPersistsClassTeacher(t *testing.T) {
	data := twoSectionWorkbook(t)
	svc, ttRepo, secRepo := newTestService(
		models.Section{ID: "s1", SectionCode: "SEC1", Strength: 60},
		models.Section{ID: "s2", SectionCode: "SEC2", Strength: 60},
	)

	report, err := svc.UploadStrict(context.Background(), data, false)
	requireNoError(t, err)
	if !report.Success {
		t.Fatalf("strict upload failed: %s (conflicts %+v)", report.Message, report.Conflicts)
	}
	if report.Saved.Inserted != 4 {
		t.Errorf("inserted = %d, want 4", report.Saved.Inserted)
	}
	if got := secRepo.sections["SEC1"].ClassTeacher; got != "Dr. X" {
		t.Errorf("SEC1 class teacher = %q, want Dr. X", got)
	}
	if len(ttRepo.entries) != 4 {
		t.Errorf("persisted %d entries, want 4", len(ttRepo.entries))
	}
}

// Round-trip: resolve + commit in replace mode, then read back exactly the
// committed set.
func TestCommitRoundTrip(t *testing.T) {
	resolver, secRepo, _, _, _ := mustResolver()
	ttRepo := newFakeTimetableRepo()
	committer := &Committer{Timetable: ttRepo, Sections: secRepo}
	ctx := context.Background()

	parsed := []models.ParsedSlotEntry{
		theoryEntry("SEC1", "Monday", "09:00", "10:00", "CN", "407", "Dr. X"),
		theoryEntry("SEC1", "Tuesday", "11:00", "12:00", "OS", "301", "Dr. W"),
	}
	wb := parsedWorkbook(parsed...)
	_, lookups, err := resolver.Resolve(ctx, wb, ModeLenient, true)
	requireNoError(t, err)

	result, err := committer.Commit(ctx, BuildEntries(parsed, lookups), CommitReplace, nil)
	requireNoError(t, err)
	if result.Inserted != 2 || result.SectionsProcessed != 1 {
		t.Fatalf("commit result = %+v", result)
	}

	persisted, err := ttRepo.GetBySection(ctx, "SEC1")
	requireNoError(t, err)
	if len(persisted) != 2 {
		t.Fatalf("persisted %d entries, want 2", len(persisted))
	}
	for i, e := range persisted {
		p := parsed[i]
		if e.Day != p.Day || e.StartTime != p.StartTime || e.EndTime != p.EndTime ||
			e.SubjectCode != p.SubjectCode || e.RoomNo != p.RoomNo {
			t.Errorf("persisted[%d] = %+v, want %+v", i, e, p)
		}
	}
}

// snapshotTimetableRepo hands out its internal slice directly, the way a
// repository backed by shared in-memory storage would.
type snapshotTimetableRepo struct {
	*fakeTimetableRepo
	snapshot []models.TimetableEntry
}

func (r *snapshotTimetableRepo) GetAll(_ context.Context) ([]models.TimetableEntry, error) {
	return r.snapshot, nil
}

// Conflict detection filters the persisted schedule; it must not reorder or
// overwrite the slice the repository handed out.
func TestDetectLeavesScheduleSnapshotIntact(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	snapshot := []models.TimetableEntry{
		BuildEntries([]models.ParsedSlotEntry{theoryEntry("SEC1", "Monday", "09:00", "10:00", "CN", "407", "Dr. X")}, nil)[0],
		BuildEntries([]models.ParsedSlotEntry{theoryEntry("SEC9", "Monday", "11:00", "12:00", "OS", "301", "Dr. W")}, nil)[0],
	}
	original := make([]models.TimetableEntry, len(snapshot))
	copy(original, snapshot)
	svc.Timetable = &snapshotTimetableRepo{fakeTimetableRepo: newFakeTimetableRepo(), snapshot: snapshot}

	candidates := BuildEntries([]models.ParsedSlotEntry{
		theoryEntry("SEC1", "Tuesday", "09:00", "10:00", "CN", "407", "Dr. X"),
	}, nil)
	wb := &WorkbookResult{Sheets: []*SheetResult{{SectionCode: "SEC1"}}}

	_, err := svc.detect(ctx, candidates, wb, CommitReplace, &Lookups{})
	requireNoError(t, err)

	for i := range original {
		if snapshot[i].SectionCode != original[i].SectionCode ||
			snapshot[i].Day != original[i].Day ||
			snapshot[i].StartTime != original[i].StartTime ||
			snapshot[i].SubjectCode != original[i].SubjectCode {
			t.Fatalf("snapshot[%d] mutated: %+v, want %+v", i, snapshot[i], original[i])
		}
	}
}

func TestCommitMissingSectionRecordedAndOthersProceed(t *testing.T) {
	secRepo := newFakeSectionRepo(models.Section{ID: "s1", SectionCode: "SEC1"})
	ttRepo := newFakeTimetableRepo()
	committer := &Committer{Timetable: ttRepo, Sections: secRepo}
	ctx := context.Background()

	entries := BuildEntries([]models.ParsedSlotEntry{
		theoryEntry("SEC1", "Monday", "09:00", "10:00", "CN", "407", "Dr. X"),
		theoryEntry("SEC9", "Monday", "09:00", "10:00", "OS", "301", "Dr. W"),
	}, nil)

	result, err := committer.Commit(ctx, entries, CommitReplace, nil)
	requireNoError(t, err)
	if result.Inserted != 1 {
		t.Errorf("inserted = %d, want 1", result.Inserted)
	}
	if len(result.Errors) != 1 || result.Errors[0].SectionCode != "SEC9" {
		t.Errorf("errors = %+v, want one for SEC9", result.Errors)
	}
	if len(ttRepo.entries) != 1 {
		t.Errorf("persisted %d entries, want 1", len(ttRepo.entries))
	}
}
