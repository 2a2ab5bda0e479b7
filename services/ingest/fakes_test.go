package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/kranthikiran885366/time-table-app/config"
	"github.com/kranthikiran885366/time-table-app/models"

	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	config.AppConfig.DefaultDepartment = "Computer Science"
	config.AppConfig.DefaultSectionStrength = 60
	config.AppConfig.FacultyEmailDomain = "college.edu"
	config.AppConfig.DryRunPreviewSize = 10
	config.AppConfig.LunchBreakStart = "12:30"
	config.AppConfig.LunchBreakEnd = "13:30"
	config.AppConfig.MaxDailyFacultyMinutes = 480
}

type fakeSectionRepo struct {
	sections map[string]models.Section
}

func newFakeSectionRepo(sections ...models.Section) *fakeSectionRepo {
	r := &fakeSectionRepo{sections: make(map[string]models.Section)}
	for _, s := range sections {
		r.sections[s.SectionCode] = s
	}
	return r
}

func (r *fakeSectionRepo) Create(_ context.Context, s *models.Section) error {
	if _, ok := r.sections[s.SectionCode]; ok {
		return errors.New("duplicate section")
	}
	r.sections[s.SectionCode] = *s
	return nil
}

func (r *fakeSectionRepo) GetByCode(_ context.Context, code string) (*models.Section, error) {
	if s, ok := r.sections[code]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSectionRepo) GetByCodes(_ context.Context, codes []string) ([]models.Section, error) {
	var out []models.Section
	for _, code := range codes {
		if s, ok := r.sections[code]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSectionRepo) SetClassTeacher(_ context.Context, code, teacher string) error {
	s, ok := r.sections[code]
	if !ok {
		return errors.New("section not found")
	}
	s.ClassTeacher = teacher
	r.sections[code] = s
	return nil
}

func (r *fakeSectionRepo) GetAll(_ context.Context) ([]models.Section, error) {
	var out []models.Section
	for _, s := range r.sections {
		out = append(out, s)
	}
	return out, nil
}

type fakeSubjectRepo struct {
	subjects map[string]models.Subject
}

func newFakeSubjectRepo() *fakeSubjectRepo {
	return &fakeSubjectRepo{subjects: make(map[string]models.Subject)}
}

func (r *fakeSubjectRepo) Create(_ context.Context, s *models.Subject) error {
	if _, ok := r.subjects[s.Code]; ok {
		return errors.New("duplicate subject")
	}
	r.subjects[s.Code] = *s
	return nil
}

func (r *fakeSubjectRepo) GetByCode(_ context.Context, code string) (*models.Subject, error) {
	if s, ok := r.subjects[code]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSubjectRepo) GetByCodes(_ context.Context, codes []string) ([]models.Subject, error) {
	var out []models.Subject
	for _, code := range codes {
		if s, ok := r.subjects[code]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeRoomRepo struct {
	rooms map[string]models.Room
}

func newFakeRoomRepo(rooms ...models.Room) *fakeRoomRepo {
	r := &fakeRoomRepo{rooms: make(map[string]models.Room)}
	for _, room := range rooms {
		r.rooms[room.Number] = room
	}
	return r
}

func (r *fakeRoomRepo) Create(_ context.Context, room *models.Room) error {
	if _, ok := r.rooms[room.Number]; ok {
		return errors.New("duplicate room")
	}
	r.rooms[room.Number] = *room
	return nil
}

func (r *fakeRoomRepo) GetByNumber(_ context.Context, number string) (*models.Room, error) {
	if room, ok := r.rooms[number]; ok {
		return &room, nil
	}
	return nil, nil
}

func (r *fakeRoomRepo) GetByNumbers(_ context.Context, numbers []string) ([]models.Room, error) {
	var out []models.Room
	for _, n := range numbers {
		if room, ok := r.rooms[n]; ok {
			out = append(out, room)
		}
	}
	return out, nil
}

type fakeFacultyRepo struct {
	faculty map[string]models.Faculty // keyed by name
}

func newFakeFacultyRepo() *fakeFacultyRepo {
	return &fakeFacultyRepo{faculty: make(map[string]models.Faculty)}
}

func (r *fakeFacultyRepo) Create(_ context.Context, f *models.Faculty) error {
	if _, ok := r.faculty[f.Name]; ok {
		return errors.New("duplicate faculty")
	}
	r.faculty[f.Name] = *f
	return nil
}

func (r *fakeFacultyRepo) GetByName(_ context.Context, name string) (*models.Faculty, error) {
	if f, ok := r.faculty[name]; ok {
		return &f, nil
	}
	return nil, nil
}

func (r *fakeFacultyRepo) GetByNames(_ context.Context, names []string) ([]models.Faculty, error) {
	var out []models.Faculty
	for _, n := range names {
		if f, ok := r.faculty[n]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFacultyRepo) GetByEmail(_ context.Context, email string) (*models.Faculty, error) {
	for _, f := range r.faculty {
		if f.Email == email {
			return &f, nil
		}
	}
	return nil, nil
}

type fakeTimetableRepo struct {
	entries map[string]models.TimetableEntry // keyed by natural key
}

func newFakeTimetableRepo() *fakeTimetableRepo {
	return &fakeTimetableRepo{entries: make(map[string]models.TimetableEntry)}
}

func (r *fakeTimetableRepo) Create(_ context.Context, e *models.TimetableEntry) error {
	k := naturalKey(*e)
	if _, ok := r.entries[k]; ok {
		return errors.New("duplicate entry")
	}
	r.entries[k] = *e
	return nil
}

func (r *fakeTimetableRepo) InsertMany(_ context.Context, entries []models.TimetableEntry) (int, []models.DuplicateError, error) {
	inserted := 0
	var dups []models.DuplicateError
	for _, e := range entries {
		k := naturalKey(e)
		if _, ok := r.entries[k]; ok {
			dups = append(dups, models.DuplicateError{
				SectionCode: e.SectionCode,
				Detail:      fmt.Sprintf("%s %s %s (%s)", e.Day, e.StartTime, e.SubjectCode, e.SectionCode),
			})
			continue
		}
		r.entries[k] = e
		inserted++
	}
	return inserted, dups, nil
}

func (r *fakeTimetableRepo) DeleteBySection(_ context.Context, sectionCode string) (int64, error) {
	var deleted int64
	for k, e := range r.entries {
		if e.SectionCode == sectionCode {
			delete(r.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTimetableRepo) GetBySection(_ context.Context, sectionCode string) ([]models.TimetableEntry, error) {
	var out []models.TimetableEntry
	for _, e := range r.entries {
		if e.SectionCode == sectionCode {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (r *fakeTimetableRepo) GetByDay(_ context.Context, day string) ([]models.TimetableEntry, error) {
	var out []models.TimetableEntry
	for _, e := range r.entries {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTimetableRepo) GetAll(_ context.Context) ([]models.TimetableEntry, error) {
	var out []models.TimetableEntry
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeTimetableRepo) WithTransaction(_ context.Context, fn func(sc mongo.SessionContext) error) error {
	return fn(nil)
}

func mustResolver(sections ...models.Section) (*Resolver, *fakeSectionRepo, *fakeSubjectRepo, *fakeRoomRepo, *fakeFacultyRepo) {
	secRepo := newFakeSectionRepo(sections...)
	subRepo := newFakeSubjectRepo()
	roomRepo := newFakeRoomRepo()
	facRepo := newFakeFacultyRepo()
	return &Resolver{Sections: secRepo, Subjects: subRepo, Rooms: roomRepo, Faculty: facRepo}, secRepo, subRepo, roomRepo, facRepo
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
