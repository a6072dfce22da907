package model

import "time"

// Skill represents one tracked skill. Skills form a shared catalog;
// they are not scoped to a user.
//
// Level is a plain numeric proficiency value. Zero is a legal level;
// presence is validated at the request boundary, not here.
type Skill struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Level       int       `json:"level"`
	Description string    `json:"description,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}
