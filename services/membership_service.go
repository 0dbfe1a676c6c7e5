package services

import (
	"log/slog"
	"sort"
	"time"

	"roomhub/domain"
	"roomhub/errors"
	"roomhub/repositories"
)

type IMembershipService interface {
	Join(userID, code string) error
	Leave(userID, code string) error
	IsMember(userID, code string) (bool, error)
	IsAdminOrOwner(actorID string, message domain.Message) (bool, error)
	Roster(code string) ([]domain.RosterEntry, error)
}

// MembershipService owns join/leave and every "may this user act on
// this room/message" decision.
type MembershipService struct {
	memberships repositories.IMembershipRepository
	rooms       repositories.IRoomRepository
	users       repositories.IUserRepository
	log         *slog.Logger
}

func NewMembershipService(memberships repositories.IMembershipRepository,
	rooms repositories.IRoomRepository, users repositories.IUserRepository,
	log *slog.Logger) IMembershipService {
	return &MembershipService{memberships: memberships, rooms: rooms, users: users, log: log}
}

// Join validates the room code and creates the membership. The
// duplicate check is the store's atomic check-and-set, so a repeated
// join always gets ErrAlreadyMember and never a second row.
func (s *MembershipService) Join(userID, code string) error {
	if _, err := s.rooms.Get(code); err != nil {
		return err
	}
	return s.memberships.Create(domain.Membership{
		UserID:   userID,
		RoomCode: code,
		IsAdmin:  false,
		JoinedAt: time.Now().UTC(),
	})
}

// Leave removes the membership and erases the leaver's message history
// in that room. The erasure is policy, not cleanup: a departed member's
// messages must not remain visible to the room.
func (s *MembershipService) Leave(userID, code string) error {
	return s.memberships.Remove(userID, code)
}

func (s *MembershipService) IsMember(userID, code string) (bool, error) {
	return s.memberships.Exists(userID, code)
}

// IsAdminOrOwner is the single predicate gating approve and delete: the
// actor must be the message's author or the room's creator-admin.
// Membership.IsAdmin is deliberately not consulted here.
func (s *MembershipService) IsAdminOrOwner(actorID string, message domain.Message) (bool, error) {
	if message.AuthorID == actorID {
		return true, nil
	}
	room, err := s.rooms.Get(message.RoomCode)
	if err != nil {
		return false, err
	}
	return room.AdminID == actorID, nil
}

// Roster returns the room's members with display names, admins first,
// then join order. An empty roster means the room does not exist (or
// was just deleted), which surfaces as ErrRoomNotFound.
func (s *MembershipService) Roster(code string) ([]domain.RosterEntry, error) {
	memberships, err := s.memberships.ListForRoom(code)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, errors.ErrRoomNotFound
	}

	sort.SliceStable(memberships, func(i, j int) bool {
		if memberships[i].IsAdmin != memberships[j].IsAdmin {
			return memberships[i].IsAdmin
		}
		return memberships[i].JoinedAt.Before(memberships[j].JoinedAt)
	})

	entries := make([]domain.RosterEntry, 0, len(memberships))
	for _, m := range memberships {
		user, err := s.users.GetByID(m.UserID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.RosterEntry{
			UserID:    m.UserID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsAdmin:   m.IsAdmin,
		})
	}
	return entries, nil
}
