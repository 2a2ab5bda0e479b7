package ingest

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook serializes sheets of rows into xlsx bytes.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range order {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%s): %v", name, err)
		}
		for i, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow(%s,%d): %v", name, i, err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func twoSectionWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00", "10.00-11.00", "11.00-12.00"},
			{"Monday", "CN-407", "CD-L-512", "CD-L-512"},
			{},
			{"CN", "Dr. X"},
			{"CD-LAB", "Dr. Y"},
			{"Class Teacher", "Dr. X"},
		},
		"SEC2": {
			{"Day", "9.00-10.00", "10.00-11.00"},
			{"Monday", "OS-301", "ML-301"},
			{},
			{"OS", "Dr. W"},
			{"ML", "Dr. V"},
		},
	}, []string{"SEC1", "SEC2"})
}

func TestParseWorkbookLenient(t *testing.T) {
	wb, err := ParseWorkbook(twoSectionWorkbook(t), ModeLenient)
	requireNoError(t, err)

	if len(wb.Sheets) != 2 {
		t.Fatalf("got %d sheets, want 2", len(wb.Sheets))
	}
	if wb.TotalEntries != 4 {
		t.Errorf("totalEntries = %d, want 4 (lab pair merged)", wb.TotalEntries)
	}
	if wb.LabsMerged != 1 {
		t.Errorf("labsMerged = %d, want 1", wb.LabsMerged)
	}
	codes := wb.SectionCodes()
	if len(codes) != 2 || codes[0] != "SEC1" || codes[1] != "SEC2" {
		t.Errorf("sectionCodes = %v", codes)
	}
}

func TestParseWorkbookDropsBadSheetKeepsGood(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00"},
			{"Monday", "CN-407"},
			{"CN", "Dr. X"},
		},
		"Notes": {
			{"just", "some", "notes"},
		},
	}, []string{"SEC1", "Notes"})

	wb, err := ParseWorkbook(data, ModeLenient)
	requireNoError(t, err)
	if len(wb.Sheets) != 1 {
		t.Fatalf("got %d sheets, want 1", len(wb.Sheets))
	}
	if len(wb.Errors) != 1 || wb.Errors[0].Sheet != "Notes" {
		t.Errorf("errors = %+v, want one for sheet Notes", wb.Errors)
	}
}

func TestParseWorkbookAllSheetsBadIsFatal(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Notes": {{"nothing", "useful"}},
	}, []string{"Notes"})

	if _, err := ParseWorkbook(data, ModeLenient); err == nil {
		t.Fatal("expected fatal error when zero sheets survive")
	}
}

func TestParseWorkbookRejectsGarbage(t *testing.T) {
	if _, err := ParseWorkbook(nil, ModeLenient); err == nil {
		t.Fatal("expected error for empty buffer")
	}
	if _, err := ParseWorkbook([]byte("not an xlsx file"), ModeLenient); err == nil {
		t.Fatal("expected error for non-xlsx bytes")
	}
}

func TestParseWorkbookStrictGaps(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"SEC1": {
			{"Day", "9.00-10.00", "10.00-11.00"},
			{"Monday", "CN-407", "OS-301"},
			{},
			{"CN", "Dr. X"},
			// OS has no faculty mapping row.
		},
	}, []string{"SEC1"})

	wb, err := ParseWorkbook(data, ModeStrict)
	requireNoError(t, err)
	if len(wb.MissingFaculty) != 1 {
		t.Fatalf("missingFaculty = %v, want one entry for OS", wb.MissingFaculty)
	}
	if len(wb.MissingRooms) != 0 {
		t.Errorf("missingRooms = %v, want none", wb.MissingRooms)
	}
}

func TestTemplateRoundTrips(t *testing.T) {
	svc := &DefaultIngestService{}
	data, err := svc.Template()
	requireNoError(t, err)

	wb, err := ParseWorkbook(data, ModeLenient)
	requireNoError(t, err)
	if len(wb.Sheets) != 2 {
		t.Fatalf("template produced %d parseable sheets, want 2", len(wb.Sheets))
	}
	for _, sheet := range wb.Sheets {
		if len(sheet.Entries) == 0 {
			t.Errorf("template sheet %s has no entries", sheet.SectionCode)
		}
		if sheet.ClassTeacher == "" {
			t.Errorf("template sheet %s has no class teacher", sheet.SectionCode)
		}
		if len(sheet.FacultyMap) == 0 {
			t.Errorf("template sheet %s has no faculty table", sheet.SectionCode)
		}
	}
}
