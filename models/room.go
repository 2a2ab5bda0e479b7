package models

import "time"

// Room types.
const (
	RoomTypeClassroom = "classroom"
	RoomTypeLab       = "lab"
)

// Room is a durable reference entity keyed by its natural number (e.g. "407").
type Room struct {
	ID        string    `bson:"id" json:"id"`
	Number    string    `bson:"number" json:"number"`
	Block     string    `bson:"block" json:"block"`
	Capacity  int       `bson:"capacity" json:"capacity"`
	Type      string    `bson:"type" json:"type"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
