package models

// CellError records a cell that could not be parsed, with grid coordinates so
// the author can find it in the spreadsheet.
type CellError struct {
	Sheet   string `json:"sheet"`
	Day     string `json:"day,omitempty"`
	Time    string `json:"time,omitempty"`
	Cell    string `json:"cell"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SheetError records why a whole sheet was excluded from the workbook result.
type SheetError struct {
	Sheet   string `json:"sheet"`
	Message string `json:"message"`
}

// CreatedCount tallies auto-created versus pre-existing records of one kind.
type CreatedCount struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

// CreationStats reports what the entity resolver created during a lenient upload.
type CreationStats struct {
	Sections CreatedCount `json:"sections"`
	Subjects CreatedCount `json:"subjects"`
	Rooms    CreatedCount `json:"rooms"`
	Faculty  CreatedCount `json:"faculty"`
}

// DuplicateError records a single persisted-entry natural-key collision.
type DuplicateError struct {
	SectionCode string `json:"sectionCode"`
	Detail      string `json:"detail"`
}

// SaveError records a non-duplicate failure while committing one section.
type SaveError struct {
	SectionCode string `json:"sectionCode"`
	Message     string `json:"message"`
}

// SectionSaveStats is the per-section persistence accounting.
type SectionSaveStats struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
	Failed   int `json:"failed"`
}

// SaveResult is the outcome of a transactional commit.
type SaveResult struct {
	Inserted          int                          `json:"inserted"`
	Updated           int                          `json:"updated"`
	Deleted           int                          `json:"deleted"`
	Failed            int                          `json:"failed"`
	SectionsProcessed int                          `json:"sectionsProcessed"`
	PerSection        map[string]*SectionSaveStats `json:"perSection"`
	Duplicates        []DuplicateError             `json:"duplicates,omitempty"`
	Errors            []SaveError                  `json:"errors,omitempty"`
}

// UploadSummary aggregates counts across the whole workbook.
type UploadSummary struct {
	TotalSheets     int `json:"totalSheets"`
	ProcessedSheets int `json:"processedSheets"`
	TotalEntries    int `json:"totalEntries"`
	SkippedCells    int `json:"skippedCells"`
	LabsMerged      int `json:"labsMerged"`
	Conflicts       int `json:"conflicts"`
	Warnings        int `json:"warnings"`
}

// SectionResult summarizes one parsed sheet in the ingestion report.
type SectionResult struct {
	SectionCode  string      `json:"sectionCode"`
	ClassTeacher string      `json:"classTeacher,omitempty"`
	Entries      int         `json:"entries"`
	ParseErrors  []CellError `json:"parseErrors,omitempty"`
}

// UploadReport is the structured ingestion report returned to the caller.
type UploadReport struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	DryRun     bool                `json:"dryRun,omitempty"`
	Summary    UploadSummary       `json:"summary"`
	Sections   []SectionResult     `json:"sections"`
	Created    *CreationStats      `json:"created,omitempty"`
	Conflicts  []Conflict          `json:"conflicts"`
	Warnings   []Conflict          `json:"warnings"`
	Errors     []SheetError        `json:"errors"`
	FacultyMap map[string][]string `json:"facultyMap,omitempty"`
	Saved      *SaveResult         `json:"saved,omitempty"`
	Preview    []ParsedSlotEntry   `json:"preview,omitempty"`
}
