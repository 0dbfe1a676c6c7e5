package domain

import "time"

// Membership ties a user to a room. The (UserID, RoomCode) pair is
// unique: a user belongs to a room at most once.
//
// IsAdmin is true only for the room creator in the base flow. It is
// persisted and returned in rosters but never consulted for
// authorization, which goes through Room.AdminID.
type Membership struct {
	UserID   string
	RoomCode string
	IsAdmin  bool
	JoinedAt time.Time
}

// RosterEntry is one line of a room roster.
type RosterEntry struct {
	UserID    string
	FirstName string
	LastName  string
	IsAdmin   bool
}
