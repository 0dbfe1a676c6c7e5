package repositories

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"roomhub/domain"
)

// Key layout. Room codes are hex and user ids are UUIDs, so ':' never
// appears inside a key segment.
//
//	user:email:{email}          -> user id (raw bytes)
//	user:id:{id}                -> userRecord
//	room:{code}                 -> roomRecord
//	member:{code}:{userID}      -> membershipRecord
//	memberof:{userID}:{code}    -> empty (reverse index for room listings)
//	msg:{code}:{unixnano}:{id}  -> messageRecord
//	msgid:{id}                  -> full msg key (raw bytes)
//
// The message timestamp is zero-padded to 19 digits so that a forward
// prefix scan yields chronological order, and the trailing UUID keeps
// two messages landing on the same nanosecond from colliding.
func userEmailKey(email string) []byte { return []byte("user:email:" + email) }
func userIDKey(id string) []byte       { return []byte("user:id:" + id) }
func roomKey(code string) []byte       { return []byte("room:" + code) }

func memberKey(code, userID string) []byte   { return []byte("member:" + code + ":" + userID) }
func memberOfKey(userID, code string) []byte { return []byte("memberof:" + userID + ":" + code) }
func memberPrefix(code string) []byte        { return []byte("member:" + code + ":") }
func memberOfPrefix(userID string) []byte    { return []byte("memberof:" + userID + ":") }

func messageKey(code string, at time.Time, id uuid.UUID) []byte {
	return fmt.Appendf(nil, "msg:%s:%019d:%s", code, at.UnixNano(), id)
}
func messageIDKey(id uuid.UUID) []byte { return []byte("msgid:" + id.String()) }
func messagePrefix(code string) []byte { return []byte("msg:" + code + ":") }

type userRecord struct {
	ID           string `cbor:"id"`
	Email        string `cbor:"email"`
	PasswordHash string `cbor:"password_hash"`
	FirstName    string `cbor:"first_name"`
	LastName     string `cbor:"last_name"`
	CreatedAt    int64  `cbor:"created_at"`
}

type roomRecord struct {
	Code      string `cbor:"code"`
	Title     string `cbor:"title"`
	AdminID   string `cbor:"admin_id"`
	Theme     string `cbor:"theme"`
	CreatedAt int64  `cbor:"created_at"`
}

type membershipRecord struct {
	UserID   string `cbor:"user_id"`
	RoomCode string `cbor:"room_code"`
	IsAdmin  bool   `cbor:"is_admin"`
	JoinedAt int64  `cbor:"joined_at"`
}

type messageRecord struct {
	ID       string `cbor:"id"`
	RoomCode string `cbor:"room_code"`
	AuthorID string `cbor:"author_id"`
	Content  string `cbor:"content"`
	IsImage  bool   `cbor:"is_image"`
	Flagged  bool   `cbor:"flagged"`
	At       int64  `cbor:"at"`
}

func fromUser(u domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		CreatedAt:    u.CreatedAt.UnixNano(),
	}
}

func toUser(r userRecord) domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		CreatedAt:    time.Unix(0, r.CreatedAt).UTC(),
	}
}

func fromRoom(r domain.Room) roomRecord {
	return roomRecord{
		Code:      r.Code,
		Title:     r.Title,
		AdminID:   r.AdminID,
		Theme:     r.Theme,
		CreatedAt: r.CreatedAt.UnixNano(),
	}
}

func toRoom(r roomRecord) domain.Room {
	return domain.Room{
		Code:      r.Code,
		Title:     r.Title,
		AdminID:   r.AdminID,
		Theme:     r.Theme,
		CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
	}
}

func fromMembership(m domain.Membership) membershipRecord {
	return membershipRecord{
		UserID:   m.UserID,
		RoomCode: m.RoomCode,
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt.UnixNano(),
	}
}

func toMembership(r membershipRecord) domain.Membership {
	return domain.Membership{
		UserID:   r.UserID,
		RoomCode: r.RoomCode,
		IsAdmin:  r.IsAdmin,
		JoinedAt: time.Unix(0, r.JoinedAt).UTC(),
	}
}

func fromMessage(m domain.Message) messageRecord {
	return messageRecord{
		ID:       m.ID.String(),
		RoomCode: m.RoomCode,
		AuthorID: m.AuthorID,
		Content:  m.Content,
		IsImage:  m.IsImage,
		Flagged:  m.Flagged,
		At:       m.At.UnixNano(),
	}
}

func toMessage(r messageRecord) (domain.Message, error) {
	parsedID, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:       parsedID,
		RoomCode: r.RoomCode,
		AuthorID: r.AuthorID,
		Content:  r.Content,
		IsImage:  r.IsImage,
		Flagged:  r.Flagged,
		At:       time.Unix(0, r.At).UTC(),
	}, nil
}

func parseMessageID(r messageRecord) (uuid.UUID, error) {
	return uuid.Parse(r.ID)
}

func encode(v any) ([]byte, error) {
	bytes, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return bytes, nil
}

func decode(data []byte, v any) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}
	return nil
}
