// Package domain contains core concepts of the messaging system.
// No storage, network, or transport logic should be added here.
package domain

import "time"

// User is an account holder. Immutable after signup except for
// credential rotation, which happens outside this system.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
}

// DisplayName is the "First Last" form shown next to messages and rosters.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
