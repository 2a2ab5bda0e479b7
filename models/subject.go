package models

import "time"

// Subject is a durable reference entity keyed by its natural code (e.g. "CN", "CD-LAB").
type Subject struct {
	ID         string    `bson:"id" json:"id"`
	Code       string    `bson:"code" json:"code"`
	Name       string    `bson:"name" json:"name"`
	Department string    `bson:"department" json:"department"`
	Semester   int       `bson:"semester" json:"semester"`
	Credits    int       `bson:"credits" json:"credits"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
