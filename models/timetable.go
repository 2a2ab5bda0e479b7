package models

import "time"

// Class types carried by schedule entries.
const (
	ClassTypeTheory     = "Theory"
	ClassTypeLab        = "Lab"
	ClassTypeTutorial   = "Tutorial"
	ClassTypeAssessment = "Assessment"
	ClassTypeHonors     = "Honors"
)

// Schedule entry statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// PlaceholderRoom is stored when a parsed entry carries no room assignment.
const PlaceholderRoom = "TBA"

// Weekdays lists the canonical day tokens in week order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// TimetableEntry is the durable schedule record. The natural key is
// (sectionCode, day, startTime), enforced by a unique compound index.
// Reference ids are optional: the record always carries the human-readable
// code/name even when the foreign-key link could not be resolved.
type TimetableEntry struct {
	ID          string    `bson:"id" json:"id"`
	SectionCode string    `bson:"sectionCode" json:"sectionCode"`
	SectionID   string    `bson:"sectionId,omitempty" json:"sectionId,omitempty"`
	Day         string    `bson:"day" json:"day"`
	StartTime   string    `bson:"startTime" json:"startTime"`
	EndTime     string    `bson:"endTime" json:"endTime"`
	SubjectCode string    `bson:"subjectCode" json:"subjectCode"`
	SubjectID   string    `bson:"subjectId,omitempty" json:"subjectId,omitempty"`
	RoomNo      string    `bson:"roomNo" json:"roomNo"`
	RoomID      string    `bson:"roomId,omitempty" json:"roomId,omitempty"`
	FacultyName string    `bson:"facultyName" json:"facultyName"`
	FacultyID   string    `bson:"facultyId,omitempty" json:"facultyId,omitempty"`
	ClassType   string    `bson:"classType" json:"classType"`
	Duration    int       `bson:"duration" json:"duration"`
	Merged      bool      `bson:"merged" json:"merged"`
	MergeCount  int       `bson:"mergeCount" json:"mergeCount"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
