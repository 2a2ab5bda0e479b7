package models

import "time"

// Faculty is a durable reference entity keyed by display name and unique email.
// Auto-provisioned records carry PlaceholderCredentials=true until an admin
// issues real credentials; issuing the placeholder is logged as an audited action.
type Faculty struct {
	ID                     string    `bson:"id" json:"id"`
	Name                   string    `bson:"name" json:"name"`
	Department             string    `bson:"department" json:"department"`
	Email                  string    `bson:"email" json:"email"`
	Role                   string    `bson:"role" json:"role"`
	Password               string    `bson:"password" json:"-"`
	PlaceholderCredentials bool      `bson:"placeholderCredentials" json:"placeholderCredentials"`
	IsActive               bool      `bson:"isActive" json:"isActive"`
	CreatedAt              time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time `bson:"updatedAt" json:"updatedAt"`
}
