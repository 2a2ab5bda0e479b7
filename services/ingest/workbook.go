package ingest

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/kranthikiran885366/time-table-app/models"
	"github.com/kranthikiran885366/time-table-app/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ParseMode selects the strictness profile of a workbook parse.
type ParseMode int

const (
	// ModeLenient is best-effort: unparseable cells are recorded and skipped,
	// missing reference entities are auto-created downstream.
	ModeLenient ParseMode = iota
	// ModeStrict is zero-tolerance: every entry must carry a real room and a
	// faculty resolved via the sheet's own mapping table.
	ModeStrict
)

// WorkbookResult aggregates every surviving sheet of one uploaded workbook.
type WorkbookResult struct {
	Sheets         []*SheetResult
	Errors         []models.SheetError
	MissingRooms   []string
	MissingFaculty []string
	TotalSheets    int
	TotalEntries   int
	SkippedCells   int
	LabsMerged     int
}

// Entries returns every parsed entry across all surviving sheets.
func (w *WorkbookResult) Entries() []models.ParsedSlotEntry {
	var all []models.ParsedSlotEntry
	for _, s := range w.Sheets {
		all = append(all, s.Entries...)
	}
	return all
}

// SectionCodes returns the distinct section codes across surviving sheets.
func (w *WorkbookResult) SectionCodes() []string {
	var codes []string
	seen := make(map[string]bool)
	for _, s := range w.Sheets {
		if !seen[s.SectionCode] {
			seen[s.SectionCode] = true
			codes = append(codes, s.SectionCode)
		}
	}
	return codes
}

// ParseWorkbook decodes the uploaded workbook and runs the sheet grammar over
// every worksheet. A sheet that fails is dropped with its reason recorded;
// the parse as a whole fails only when zero sheets survive. In strict mode,
// entries lacking a real room or a mapping-table faculty are bucketed into
// MissingRooms/MissingFaculty for the caller to fail fast on.
func ParseWorkbook(data []byte, mode ParseMode) (*WorkbookResult, error) {
	logger := utils.GetLogger()

	if len(data) == 0 {
		return nil, &ValidationError{Message: "uploaded workbook is empty"}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("unreadable workbook: %v", err)}
	}
	defer f.Close()

	result := &WorkbookResult{}
	missingRooms := make(map[string]bool)
	missingFaculty := make(map[string]bool)

	sheetNames := f.GetSheetList()
	result.TotalSheets = len(sheetNames)

	for _, name := range sheetNames {
		rows, err := f.GetRows(name)
		if err != nil {
			result.Errors = append(result.Errors, models.SheetError{
				Sheet:   name,
				Message: fmt.Sprintf("failed to read sheet: %v", err),
			})
			continue
		}

		sheet, err := ParseSheet(rows, name)
		if err != nil {
			result.Errors = append(result.Errors, models.SheetError{Sheet: name, Message: err.Error()})
			continue
		}

		if mode == ModeStrict {
			collectStrictGaps(sheet, missingRooms, missingFaculty)
		}

		result.Sheets = append(result.Sheets, sheet)
		result.TotalEntries += len(sheet.Entries)
		result.SkippedCells += sheet.SkippedCells
		result.LabsMerged += sheet.LabsMerged

		logger.Info("Parsed timetable sheet",
			zap.String("sheet", name),
			zap.String("section", sheet.SectionCode),
			zap.Int("entries", len(sheet.Entries)),
			zap.Int("skipped", sheet.SkippedCells),
			zap.Int("labsMerged", sheet.LabsMerged),
		)
	}

	if len(result.Sheets) == 0 {
		return nil, &ValidationError{Message: "no usable timetable sheets found in workbook"}
	}

	result.MissingRooms = sortedKeys(missingRooms)
	result.MissingFaculty = sortedKeys(missingFaculty)
	return result, nil
}

// collectStrictGaps records entries that would need lenient-mode guessing:
// placeholder rooms, and subjects with no row in the sheet's faculty table.
func collectStrictGaps(sheet *SheetResult, missingRooms, missingFaculty map[string]bool) {
	for _, e := range sheet.Entries {
		if e.RoomNo == "" || e.RoomNo == models.PlaceholderRoom {
			missingRooms[fmt.Sprintf("%s %s %s (%s)", sheet.SectionCode, e.Day, e.StartTime, e.SubjectCode)] = true
		}
		if len(sheet.FacultyMap.Lookup(e.SubjectCode)) == 0 {
			missingFaculty[fmt.Sprintf("%s: %s", sheet.SectionCode, e.SubjectCode)] = true
		}
	}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
