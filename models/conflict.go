package models

// Conflict types.
const (
	ConflictRoom     = "ROOM_CONFLICT"
	ConflictSection  = "SECTION_OVERLAP"
	ConflictFaculty  = "FACULTY_CONFLICT"
	ConflictCapacity = "CAPACITY_WARNING"
	ConflictBreak    = "BREAK_OVERLAP"
	ConflictWorkload = "WORKLOAD_EXCEEDED"
)

// Conflict severities.
const (
	SeverityError   = "ERROR"
	SeverityWarning = "WARNING"
)

// ConflictSide identifies one of the entries involved in a conflict.
type ConflictSide struct {
	SectionCode string `json:"sectionCode"`
	SubjectCode string `json:"subjectCode"`
	RoomNo      string `json:"roomNo,omitempty"`
	FacultyName string `json:"facultyName,omitempty"`
	Time        string `json:"time"`
}

// Conflict is an ephemeral diagnostic produced by conflict detection. It is
// returned in the ingestion report or used to gate commit, never persisted.
type Conflict struct {
	Type       string         `json:"type"`
	Severity   string         `json:"severity"`
	Message    string         `json:"message"`
	Day        string         `json:"day"`
	Time       string         `json:"time"`
	Details    []ConflictSide `json:"details,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// IsBlocking reports whether the conflict should prevent a commit by default.
func (c Conflict) IsBlocking() bool {
	return c.Severity == SeverityError
}
