package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Template builds a sample two-section workbook in the grid convention the
// parser consumes, for admins to download and fill in.
func (s *DefaultIngestService) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTemplateSheet(f, "SEC1", "SECTION-1", "Dr. A. Sharma"); err != nil {
		return nil, err
	}
	if err := writeTemplateSheet(f, "SEC2", "SECTION-2", "Dr. B. Rao"); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTemplateSheet(f *excelize.File, name, sectionTitle, classTeacher string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	rows := [][]interface{}{
		{sectionTitle + " TIMETABLE"},
		{},
		{"Day", "8.00-8.50", "9.00-9.50", "10.00-10.50", "11.00-11.50", "LUNCH", "1.40-2.30", "2.30-3.20"},
		{"Monday", "CN-407", "OS-407", "DBMS-407", "CD-L-512", "", "CD-L-512", "ML-407"},
		{"Tuesday", "OS-407", "CN-407", "ML-407", "DBMS-407", "", "CN-407", "FREE"},
		{"Wednesday", "DBMS-407", "ML-407", "CN-407", "OS-407", "", "OS-L-510", "OS-L-510"},
		{"Thursday", "ML-407", "DBMS-407", "OS-407", "CN-407", "", "DBMS-407", "CN-407(T)"},
		{"Friday", "CN-407", "OS-407", "ML-407", "DBMS-407", "", "ML-407", "FREE"},
		{},
		{"CN", "Dr. A. Sharma"},
		{"OS", "Dr. B. Rao"},
		{"DBMS", "Dr. C. Iyer"},
		{"ML", "Dr. D. Nair"},
		{"CD-LAB", "Dr. E. Menon"},
		{"OS-LAB", "Dr. B. Rao"},
		{"Class Teacher", classTeacher},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
