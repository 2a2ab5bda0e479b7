package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kranthikiran885366/time-table-app/models"
)

var (
	sectionTokenRe = regexp.MustCompile(`SECTION[\s-]*(\d+)`)
	secLabelRe     = regexp.MustCompile(`^SEC[\s-]*(\d+)$`)
	arrowRe        = regexp.MustCompile(`\s*(?:→|->|=>)\s*`)
	classTeacherRe = regexp.MustCompile(`^CLASS\s*TEACHER\s*(?:→|->|=>|[:\-])?\s*(.*)$`)
	subjectCodeRe  = regexp.MustCompile(`^[A-Z][A-Z0-9-]*$`)
)

// sectionRowScanLimit bounds how deep the section-identifier scan goes before
// falling back to the sheet label.
const sectionRowScanLimit = 5

// headerColumn describes one parsed header column of the grid.
type headerColumn struct {
	startTime  string
	endTime    string
	scheduling bool
}

// SheetResult is the outcome of parsing one worksheet.
type SheetResult struct {
	SectionCode  string
	ClassTeacher string
	FacultyMap   models.FacultyMap
	Entries      []models.ParsedSlotEntry
	SkippedCells int
	LabsMerged   int
	Errors       []models.CellError
}

// ParseSheet converts one worksheet grid into a merged, faculty-attached
// entry list. The grid convention: a section identifier in the first rows,
// a header row whose first cell reads Day/Days/Time followed by time-range
// columns, one row per weekday, then a trailer region holding the faculty
// mapping table and an optional class-teacher line.
func ParseSheet(grid [][]string, label string) (*SheetResult, error) {
	sectionCode, err := findSectionCode(grid, label)
	if err != nil {
		return nil, err
	}

	headerRow, columns := findHeaderRow(grid)
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %q: no header row (Day/Days/Time) found", label)
	}

	result := &SheetResult{
		SectionCode: sectionCode,
		FacultyMap:  models.FacultyMap{},
	}

	trailerStart := len(grid)
	for r := headerRow + 1; r < len(grid); r++ {
		row := grid[r]
		if len(row) == 0 {
			continue
		}
		day, isDay := ParseDay(cellAt(row, 0))
		if !isDay {
			trailerStart = r
			break
		}
		parseDayRow(result, row, r, day, columns, label)
	}

	parseTrailer(result, grid, trailerStart)

	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("sheet %q (section %s): no schedule entries found", label, sectionCode)
	}

	attachFaculty(result)
	before := len(result.Entries)
	result.Entries = MergeLabs(result.Entries)
	result.LabsMerged = before - len(result.Entries)
	return result, nil
}

func parseDayRow(result *SheetResult, row []string, r int, day string, columns []headerColumn, label string) {
	for c := 1; c < len(row) && c < len(columns); c++ {
		col := columns[c]
		cell := strings.TrimSpace(row[c])
		if !col.scheduling {
			continue
		}
		token, ok, reason := ParseCell(cell)
		if !ok {
			if reason == "" {
				result.SkippedCells++
				continue
			}
			result.Errors = append(result.Errors, models.CellError{
				Sheet:   label,
				Day:     day,
				Time:    col.startTime + "-" + col.endTime,
				Cell:    cell,
				Row:     r,
				Col:     c,
				Message: reason,
			})
			continue
		}
		roomNo := token.RoomNo
		if roomNo == "" {
			roomNo = models.PlaceholderRoom
		}
		result.Entries = append(result.Entries, models.ParsedSlotEntry{
			SectionCode: result.SectionCode,
			Day:         day,
			StartTime:   col.startTime,
			EndTime:     col.endTime,
			SubjectCode: token.SubjectCode,
			RoomNo:      roomNo,
			FacultyName: token.FacultyHint,
			ClassType:   token.ClassType,
			Duration:    1,
			MergeCount:  1,
			Row:         r,
			Col:         c,
		})
	}
}

// findSectionCode scans the first rows for a "SECTION <n>" token, then falls
// back to the sheet's own label. "SECTION-14", "SECTION 14", and a "SEC14"
// label all normalize to "SEC14".
func findSectionCode(grid [][]string, label string) (string, error) {
	limit := sectionRowScanLimit
	if limit > len(grid) {
		limit = len(grid)
	}
	for r := 0; r < limit; r++ {
		for _, cell := range grid[r] {
			if m := sectionTokenRe.FindStringSubmatch(strings.ToUpper(cell)); m != nil {
				return "SEC" + m[1], nil
			}
		}
	}

	up := strings.ToUpper(strings.TrimSpace(label))
	if m := sectionTokenRe.FindStringSubmatch(up); m != nil {
		return "SEC" + m[1], nil
	}
	if m := secLabelRe.FindStringSubmatch(up); m != nil {
		return "SEC" + m[1], nil
	}
	if code := strings.ReplaceAll(up, " ", ""); code != "" {
		return code, nil
	}
	return "", fmt.Errorf("sheet %q: unable to determine section code", label)
}

// findHeaderRow locates the row whose first cell reads Day/Days/Time and
// classifies every column to its right: a time-range column, a break column,
// or an invalid column whose cells are always skipped.
func findHeaderRow(grid [][]string) (int, []headerColumn) {
	for r, row := range grid {
		first := strings.ToUpper(cellAt(row, 0))
		if first != "DAY" && first != "DAYS" && first != "TIME" {
			continue
		}
		columns := make([]headerColumn, len(row))
		for c := 1; c < len(row); c++ {
			header := normalizeCell(row[c])
			if header == "" || freeKeywords[header] {
				continue
			}
			if start, end, ok := ParseRange(row[c]); ok {
				columns[c] = headerColumn{startTime: start, endTime: end, scheduling: true}
			}
		}
		return r, columns
	}
	return -1, nil
}

// parseTrailer reads the region below the grid: faculty mapping rows of the
// shape "SUBJECT → Name, Name" (arrow or bare two-column layout) and an
// optional "Class Teacher → Name" line.
func parseTrailer(result *SheetResult, grid [][]string, start int) {
	for r := start; r < len(grid); r++ {
		row := grid[r]
		first := strings.TrimSpace(cellAt(row, 0))
		if first == "" {
			continue
		}

		if m := classTeacherRe.FindStringSubmatch(strings.ToUpper(first)); m != nil {
			name := strings.TrimSpace(first[len(first)-len(m[1]):])
			if name == "" {
				name = strings.TrimSpace(cellAt(row, 1))
			}
			result.ClassTeacher = name
			continue
		}

		if code, names, ok := parseFacultyMappingRow(row); ok {
			result.FacultyMap[code] = names
		}
	}
}

func parseFacultyMappingRow(row []string) (string, []string, bool) {
	first := strings.TrimSpace(cellAt(row, 0))

	// Arrow form in a single cell.
	if parts := arrowRe.Split(first, 2); len(parts) == 2 {
		code := strings.ToUpper(strings.TrimSpace(parts[0]))
		if subjectCodeRe.MatchString(code) {
			if names := splitNames(parts[1]); len(names) > 0 {
				return code, names, true
			}
		}
		return "", nil, false
	}

	// Bare two-column form: code in column 0, names in column 1.
	code := strings.ToUpper(first)
	if !subjectCodeRe.MatchString(code) {
		return "", nil, false
	}
	if names := splitNames(cellAt(row, 1)); len(names) > 0 {
		return code, names, true
	}
	return "", nil, false
}

func splitNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// attachFaculty fills in each entry's faculty: an inline cell hint wins,
// otherwise the first name mapped for the subject in the trailer table.
func attachFaculty(result *SheetResult) {
	for i := range result.Entries {
		e := &result.Entries[i]
		if e.FacultyName != "" {
			continue
		}
		if names := result.FacultyMap.Lookup(e.SubjectCode); len(names) > 0 {
			e.FacultyName = names[0]
		}
	}
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
