// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt output for accounts created through the
// register endpoint. Accounts created through GitHub sign-in have no
// password; for those GitHubID is set instead and PasswordHash stays empty.
//
// Both PasswordHash and GitHubID are tagged `json:"-"` so they can never
// leak into an API response, no matter which handler serializes the struct.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"` // zero when the account is password-based
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the projection of a User that API responses carry.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the response-safe projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
