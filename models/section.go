package models

import "time"

// Section is a durable reference entity keyed by its natural sectionCode (e.g. "SEC14").
type Section struct {
	ID           string    `bson:"id" json:"id"`
	SectionCode  string    `bson:"sectionCode" json:"sectionCode"`
	Name         string    `bson:"name" json:"name"`
	Department   string    `bson:"department" json:"department"`
	Year         int       `bson:"year" json:"year"`
	Semester     int       `bson:"semester" json:"semester"`
	Strength     int       `bson:"strength" json:"strength"`
	AcademicYear string    `bson:"academicYear" json:"academicYear"`
	ClassTeacher string    `bson:"classTeacher,omitempty" json:"classTeacher,omitempty"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
