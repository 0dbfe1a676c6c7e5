package domain

import "time"

// Room is identified by its short code, which doubles as the shareable
// invite token. AdminID records the creator; it is the only identity
// with elevated rights over the room's messages.
type Room struct {
	Code      string
	Title     string
	AdminID   string
	Theme     string
	CreatedAt time.Time
}

// RoomSummary is the listing shape: a room joined with its creator's
// display name.
type RoomSummary struct {
	Code           string
	Title          string
	AdminID        string
	AdminFirstName string
	AdminLastName  string
}

const (
	MinTitleLength = 1
	MaxTitleLength = 75

	DefaultTheme = "default"
)
