package models

// RawCellToken is the structured descriptor produced for one grid cell.
// It is ephemeral and never persisted.
type RawCellToken struct {
	SubjectCode string `json:"subjectCode"`
	ClassType   string `json:"classType"`
	RoomNo      string `json:"roomNo"`
	FacultyHint string `json:"facultyHint,omitempty"`
}

// ParsedSlotEntry is the unit flowing through the ingestion pipeline. Created
// per grid cell, mutated only during the lab-merge pass, then treated as
// immutable until it is committed as a TimetableEntry.
type ParsedSlotEntry struct {
	SectionCode string `json:"sectionCode"`
	Day         string `json:"day"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	SubjectCode string `json:"subjectCode"`
	RoomNo      string `json:"roomNo"`
	FacultyName string `json:"facultyName,omitempty"`
	ClassType   string `json:"classType"`
	Duration    int    `json:"duration"`
	Merged      bool   `json:"merged"`
	MergeCount  int    `json:"mergeCount"`

	// Source grid coordinates, kept for diagnostics.
	Row int `json:"-"`
	Col int `json:"-"`
}

// FacultyMap maps a subject code (and its "<code>-LAB" variant) to the ordered
// list of faculty display names parsed from a sheet's trailer table.
type FacultyMap map[string][]string

// Lookup returns the mapped faculty for a subject code, falling back from
// "<code>-LAB" to the base code for lab subjects.
func (m FacultyMap) Lookup(subjectCode string) []string {
	if names, ok := m[subjectCode]; ok {
		return names
	}
	const labSuffix = "-LAB"
	if len(subjectCode) > len(labSuffix) && subjectCode[len(subjectCode)-len(labSuffix):] == labSuffix {
		if names, ok := m[subjectCode[:len(subjectCode)-len(labSuffix)]]; ok {
			return names
		}
	}
	return nil
}
