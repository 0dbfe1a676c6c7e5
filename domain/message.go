package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a room event. Flagged means "hidden from ordinary members
// pending review": set by automated moderation at creation, cleared by
// an approve. Deletion removes the row; there is no tombstone state.
type Message struct {
	ID       uuid.UUID
	RoomCode string
	AuthorID string
	Content  string
	IsImage  bool
	Flagged  bool
	At       time.Time
}

// VisibleTo reports whether a requester may see this message. Flagged
// messages stay visible to their author and to the room creator-admin,
// so two members can legitimately see different sets at the same time.
func (m Message) VisibleTo(requesterID, roomAdminID string) bool {
	return !m.Flagged || m.AuthorID == requesterID || roomAdminID == requesterID
}

// MessageView is the read-side shape: a message joined with its
// author's display name.
type MessageView struct {
	ID         uuid.UUID
	AuthorID   string
	AuthorName string
	Content    string
	IsImage    bool
	Flagged    bool
	At         time.Time
}
