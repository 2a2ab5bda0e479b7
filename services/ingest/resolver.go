package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kranthikiran885366/time-table-app/config"
	facultyRepo "github.com/kranthikiran885366/time-table-app/database/repository/faculty"
	roomRepo "github.com/kranthikiran885366/time-table-app/database/repository/room"
	sectionRepo "github.com/kranthikiran885366/time-table-app/database/repository/section"
	subjectRepo "github.com/kranthikiran885366/time-table-app/database/repository/subject"
	"github.com/kranthikiran885366/time-table-app/models"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// placeholderPassword is assigned to auto-provisioned faculty accounts.
// Issuing it is a flagged, audited action: the record carries
// PlaceholderCredentials=true and the provisioning is logged.
const placeholderPassword = "faculty123"

// subjectNames maps common subject codes to display names; anything else
// falls back to "Subject <code>".
var subjectNames = map[string]string{
	"CN":   "Computer Networks",
	"CD":   "Compiler Design",
	"OS":   "Operating Systems",
	"DBMS": "Database Management Systems",
	"ML":   "Machine Learning",
	"AI":   "Artificial Intelligence",
	"SE":   "Software Engineering",
	"DS":   "Data Structures",
	"DAA":  "Design and Analysis of Algorithms",
	"TOC":  "Theory of Computation",
	"WT":   "Web Technologies",
	"CC":   "Cloud Computing",
	"IOT":  "Internet of Things",
	"CS":   "Cyber Security",
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Resolver turns natural codes in parsed entries into durable records,
// auto-creating gaps in lenient mode.
type Resolver struct {
	Sections sectionRepo.SectionRepository
	Subjects subjectRepo.SubjectRepository
	Rooms    roomRepo.RoomRepository
	Faculty  facultyRepo.FacultyRepository
}

// Lookups maps natural codes to the resolved durable records.
type Lookups struct {
	Sections map[string]models.Section
	Subjects map[string]models.Subject
	Rooms    map[string]models.Room
	Faculty  map[string]models.Faculty
}

// NewLookups returns an empty lookup set.
func NewLookups() *Lookups {
	return &Lookups{
		Sections: make(map[string]models.Section),
		Subjects: make(map[string]models.Subject),
		Rooms:    make(map[string]models.Room),
		Faculty:  make(map[string]models.Faculty),
	}
}

// Resolve looks up every distinct section/subject/room/faculty code in the
// parsed workbook. When createMissing is true (non-dry-run) absent records
// are synthesized and inserted, each distinct code exactly once; a
// duplicate-key race on insert is treated as already-exists and re-fetched.
// When createMissing is false the stats still report what would be created,
// so dry runs stay side-effect free. In strict mode sections are never
// auto-created: any missing section code aborts resolution with every absent
// code reported together.
func (r *Resolver) Resolve(ctx context.Context, wb *WorkbookResult, mode ParseMode, createMissing bool) (*models.CreationStats, *Lookups, error) {
	stats := &models.CreationStats{}
	lookups := NewLookups()

	if mode == ModeStrict {
		sections, missing, err := r.RequireSections(ctx, wb.SectionCodes())
		if err != nil {
			return nil, nil, err
		}
		if len(missing) > 0 {
			return nil, nil, &ValidationError{
				Message:         "all sections must exist before a strict upload",
				MissingSections: missing,
			}
		}
		lookups.Sections = sections
		stats.Sections.Existing = len(sections)
	} else if err := r.resolveSections(ctx, wb, createMissing, stats, lookups); err != nil {
		return nil, nil, err
	}
	if err := r.resolveSubjects(ctx, wb, createMissing, stats, lookups); err != nil {
		return nil, nil, err
	}
	if err := r.resolveRooms(ctx, wb, createMissing, stats, lookups); err != nil {
		return nil, nil, err
	}
	if err := r.resolveFaculty(ctx, wb, createMissing, stats, lookups); err != nil {
		return nil, nil, err
	}
	return stats, lookups, nil
}

// RequireSections enforces the strict-profile gate: every referenced section
// must already exist. All missing codes are reported together so the author
// fixes the workbook in one pass.
func (r *Resolver) RequireSections(ctx context.Context, codes []string) (map[string]models.Section, []string, error) {
	found, err := r.Sections.GetByCodes(ctx, codes)
	if err != nil {
		return nil, nil, &StorageError{Op: "section lookup", Err: err}
	}
	byCode := make(map[string]models.Section, len(found))
	for _, s := range found {
		byCode[s.SectionCode] = s
	}
	var missing []string
	for _, code := range codes {
		if _, ok := byCode[code]; !ok {
			missing = append(missing, code)
		}
	}
	return byCode, missing, nil
}

func (r *Resolver) resolveSections(ctx context.Context, wb *WorkbookResult, create bool, stats *models.CreationStats, lookups *Lookups) error {
	codes := wb.SectionCodes()
	found, err := r.Sections.GetByCodes(ctx, codes)
	if err != nil {
		return &StorageError{Op: "section lookup", Err: err}
	}
	for _, s := range found {
		lookups.Sections[s.SectionCode] = s
		stats.Sections.Existing++
	}
	for _, code := range codes {
		if _, ok := lookups.Sections[code]; ok {
			continue
		}
		stats.Sections.Created++
		if !create {
			continue
		}
		section := synthesizeSection(code)
		if err := r.Sections.Create(ctx, section); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return &StorageError{Op: "section auto-create", Err: err}
			}
			existing, ferr := r.Sections.GetByCode(ctx, code)
			if ferr != nil || existing == nil {
				return &StorageError{Op: "section re-fetch after duplicate", Err: ferr}
			}
			section = existing
		}
		lookups.Sections[code] = *section
	}
	return nil
}

func (r *Resolver) resolveSubjects(ctx context.Context, wb *WorkbookResult, create bool, stats *models.CreationStats, lookups *Lookups) error {
	codes := distinct(wb, func(e models.ParsedSlotEntry) string { return e.SubjectCode })
	found, err := r.Subjects.GetByCodes(ctx, codes)
	if err != nil {
		return &StorageError{Op: "subject lookup", Err: err}
	}
	for _, s := range found {
		lookups.Subjects[s.Code] = s
		stats.Subjects.Existing++
	}
	for _, code := range codes {
		if _, ok := lookups.Subjects[code]; ok {
			continue
		}
		stats.Subjects.Created++
		if !create {
			continue
		}
		subject := &models.Subject{
			ID:         uuid.New().String(),
			Code:       code,
			Name:       subjectNameFor(code),
			Department: config.AppConfig.DefaultDepartment,
			Semester:   1,
			Credits:    3,
		}
		if err := r.Subjects.Create(ctx, subject); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return &StorageError{Op: "subject auto-create", Err: err}
			}
			existing, ferr := r.Subjects.GetByCode(ctx, code)
			if ferr != nil || existing == nil {
				return &StorageError{Op: "subject re-fetch after duplicate", Err: ferr}
			}
			subject = existing
		}
		lookups.Subjects[code] = *subject
	}
	return nil
}

func (r *Resolver) resolveRooms(ctx context.Context, wb *WorkbookResult, create bool, stats *models.CreationStats, lookups *Lookups) error {
	isLabRoom := make(map[string]bool)
	numbers := distinct(wb, func(e models.ParsedSlotEntry) string {
		if e.ClassType == models.ClassTypeLab {
			isLabRoom[e.RoomNo] = true
		}
		if e.RoomNo == models.PlaceholderRoom {
			return ""
		}
		return e.RoomNo
	})
	found, err := r.Rooms.GetByNumbers(ctx, numbers)
	if err != nil {
		return &StorageError{Op: "room lookup", Err: err}
	}
	for _, room := range found {
		lookups.Rooms[room.Number] = room
		stats.Rooms.Existing++
	}
	for _, number := range numbers {
		if _, ok := lookups.Rooms[number]; ok {
			continue
		}
		stats.Rooms.Created++
		if !create {
			continue
		}
		roomType := models.RoomTypeClassroom
		if isLabRoom[number] {
			roomType = models.RoomTypeLab
		}
		room := &models.Room{
			ID:       uuid.New().String(),
			Number:   number,
			Block:    blockFromRoom(number),
			Capacity: config.AppConfig.DefaultSectionStrength,
			Type:     roomType,
			IsActive: true,
		}
		if err := r.Rooms.Create(ctx, room); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return &StorageError{Op: "room auto-create", Err: err}
			}
			existing, ferr := r.Rooms.GetByNumber(ctx, number)
			if ferr != nil || existing == nil {
				return &StorageError{Op: "room re-fetch after duplicate", Err: ferr}
			}
			room = existing
		}
		lookups.Rooms[number] = *room
	}
	return nil
}

func (r *Resolver) resolveFaculty(ctx context.Context, wb *WorkbookResult, create bool, stats *models.CreationStats, lookups *Lookups) error {
	logger := utils.GetLogger()
	names := distinct(wb, func(e models.ParsedSlotEntry) string { return e.FacultyName })
	found, err := r.Faculty.GetByNames(ctx, names)
	if err != nil {
		return &StorageError{Op: "faculty lookup", Err: err}
	}
	for _, f := range found {
		lookups.Faculty[f.Name] = f
		stats.Faculty.Existing++
	}
	for _, name := range names {
		if _, ok := lookups.Faculty[name]; ok {
			continue
		}
		stats.Faculty.Created++
		if !create {
			continue
		}
		f, err := synthesizeFaculty(name)
		if err != nil {
			return fmt.Errorf("failed to synthesize faculty %s: %w", name, err)
		}
		if err := r.Faculty.Create(ctx, f); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return &StorageError{Op: "faculty auto-create", Err: err}
			}
			existing, ferr := r.Faculty.GetByEmail(ctx, f.Email)
			if ferr != nil || existing == nil {
				return &StorageError{Op: "faculty re-fetch after duplicate", Err: ferr}
			}
			f = existing
		}
		logger.Warn("Auto-provisioned faculty with placeholder credentials",
			zap.String("name", f.Name),
			zap.String("email", f.Email),
		)
		lookups.Faculty[name] = *f
	}
	return nil
}

func synthesizeSection(code string) *models.Section {
	year := time.Now().Year()
	return &models.Section{
		ID:           uuid.New().String(),
		SectionCode:  code,
		Name:         "Section " + strings.TrimPrefix(code, "SEC"),
		Department:   config.AppConfig.DefaultDepartment,
		Year:         1,
		Semester:     1,
		Strength:     config.AppConfig.DefaultSectionStrength,
		AcademicYear: fmt.Sprintf("%d-%d", year, year+1),
		IsActive:     true,
	}
}

func synthesizeFaculty(name string) (*models.Faculty, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(placeholderPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &models.Faculty{
		ID:                     uuid.New().String(),
		Name:                   name,
		Department:             config.AppConfig.DefaultDepartment,
		Email:                  FacultyEmail(name),
		Role:                   "faculty",
		Password:               string(hash),
		PlaceholderCredentials: true,
		IsActive:               true,
	}, nil
}

// FacultyEmail derives a deterministic address from a display name:
// "Dr. A. Kumar" becomes "dr.a.kumar@<domain>".
func FacultyEmail(name string) string {
	local := nonAlnumRe.ReplaceAllString(strings.ToLower(name), ".")
	local = strings.Trim(local, ".")
	if local == "" {
		local = "faculty." + uuid.New().String()[:8]
	}
	return local + "@" + config.AppConfig.FacultyEmailDomain
}

func subjectNameFor(code string) string {
	base := strings.TrimSuffix(code, "-LAB")
	if name, ok := subjectNames[base]; ok {
		if base != code {
			return name + " Lab"
		}
		return name
	}
	return "Subject " + code
}

// blockFromRoom infers the building block from the room number's leading
// digit ("407" sits in block 4).
func blockFromRoom(number string) string {
	for _, r := range number {
		if r >= '0' && r <= '9' {
			return string(r)
		}
	}
	return "1"
}

// distinct collects non-empty distinct values of key across all entries,
// preserving first-seen order. Deduplicating here guarantees each missing
// code is inserted exactly once per upload.
func distinct(wb *WorkbookResult, key func(models.ParsedSlotEntry) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, sheet := range wb.Sheets {
		for _, e := range sheet.Entries {
			v := key(e)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
