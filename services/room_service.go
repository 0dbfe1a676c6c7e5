package services

import (
	"crypto/sha1"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"roomhub/domain"
	"roomhub/errors"
	"roomhub/repositories"
)

type IRoomService interface {
	Create(creatorID, title string) (domain.Room, error)
	Get(code string) (domain.Room, error)
	Delete(code string) error
	ListFor(userID string) ([]domain.RoomSummary, error)
	Theme(code string) (string, error)
}

// RoomService owns room creation/deletion and room-code allocation.
type RoomService struct {
	rooms        repositories.IRoomRepository
	users        repositories.IUserRepository
	codeAttempts int
	log          *slog.Logger
}

func NewRoomService(rooms repositories.IRoomRepository, users repositories.IUserRepository,
	codeAttempts int, log *slog.Logger) IRoomService {
	return &RoomService{rooms: rooms, users: users, codeAttempts: codeAttempts, log: log}
}

// Create allocates a room code and inserts the room together with the
// creator's admin membership. Code uniqueness is enforced by the store,
// not by a pre-check: truncating the hash to 6 hex characters shrinks
// the key space enough that collisions are an expected event, so the
// allocation regenerates with a fresh timestamp and retries a bounded
// number of times before giving up.
func (s *RoomService) Create(creatorID, title string) (domain.Room, error) {
	if l := utf8.RuneCountInString(title); l < domain.MinTitleLength || l > domain.MaxTitleLength {
		return domain.Room{}, fmt.Errorf("%w: title must be between %d and %d characters",
			errors.ErrValidation, domain.MinTitleLength, domain.MaxTitleLength)
	}
	if _, err := s.users.GetByID(creatorID); err != nil {
		return domain.Room{}, err
	}

	for attempt := 0; attempt < s.codeAttempts; attempt++ {
		now := time.Now().UTC()
		room := domain.Room{
			Code:      roomCode(creatorID, now),
			Title:     title,
			AdminID:   creatorID,
			Theme:     domain.DefaultTheme,
			CreatedAt: now,
		}
		creator := domain.Membership{
			UserID:   creatorID,
			RoomCode: room.Code,
			IsAdmin:  true,
			JoinedAt: now,
		}

		err := s.rooms.Create(room, creator)
		if stderrors.Is(err, errors.ErrRoomCodeTaken) {
			s.log.Warn("room code collision, regenerating", "code", room.Code, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return domain.Room{}, err
		}
		return room, nil
	}
	return domain.Room{}, errors.ErrRoomCodeExhausted
}

// roomCode derives the short invite code from a one-way hash of the
// creation instant and the creator's id, truncated to 6 hex characters.
func roomCode(creatorID string, at time.Time) string {
	sum := sha1.Sum(fmt.Appendf(nil, "%d%s", at.UnixNano(), creatorID))
	return hex.EncodeToString(sum[:])[:6]
}

func (s *RoomService) Get(code string) (domain.Room, error) {
	return s.rooms.Get(code)
}

// Delete runs the transactional cascade (messages, memberships, room).
// It performs no authorization check itself: the caller is expected to
// have verified admin rights already.
func (s *RoomService) Delete(code string) error {
	if _, err := s.rooms.Get(code); err != nil {
		return err
	}
	return s.rooms.Delete(code)
}

// ListFor returns every room the user belongs to, joined with the
// creator's display name.
func (s *RoomService) ListFor(userID string) ([]domain.RoomSummary, error) {
	rooms, err := s.rooms.ListFor(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		admin, err := s.users.GetByID(room.AdminID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.RoomSummary{
			Code:           room.Code,
			Title:          room.Title,
			AdminID:        room.AdminID,
			AdminFirstName: admin.FirstName,
			AdminLastName:  admin.LastName,
		})
	}
	return summaries, nil
}

func (s *RoomService) Theme(code string) (string, error) {
	room, err := s.rooms.Get(code)
	if err != nil {
		return "", err
	}
	return room.Theme, nil
}
