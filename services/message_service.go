package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"roomhub/domain"
	"roomhub/errors"
	"roomhub/moderation"
	"roomhub/repositories"
)

type IMessageService interface {
	Send(ctx context.Context, userID, code, content string, isImage bool) (domain.Message, error)
	Approve(id uuid.UUID, actorID string) error
	Delete(id uuid.UUID, actorID string) error
	List(code, requesterID string) ([]domain.MessageView, error)
}

// MessageService owns the message lifecycle: creation through the
// moderation gate, flag/approve/delete transitions, and the read-side
// visibility filter.
type MessageService struct {
	messages    repositories.IMessageRepository
	memberships IMembershipService
	rooms       repositories.IRoomRepository
	users       repositories.IUserRepository
	gate        moderation.Gate
	log         *slog.Logger
}

func NewMessageService(messages repositories.IMessageRepository,
	memberships IMembershipService, rooms repositories.IRoomRepository,
	users repositories.IUserRepository, gate moderation.Gate,
	log *slog.Logger) IMessageService {
	return &MessageService{
		messages:    messages,
		memberships: memberships,
		rooms:       rooms,
		users:       users,
		gate:        gate,
		log:         log,
	}
}

// Send creates a message for a room member. Text goes through the
// moderation gate; image payloads bypass classification since the
// classifier operates on text. The message is stored either way: on a
// classifier failure it is stored flagged (fail-closed) and the wrapped
// ErrClassifierUnavailable is returned alongside the created message so
// the caller can log or retry.
func (s *MessageService) Send(ctx context.Context, userID, code, content string, isImage bool) (domain.Message, error) {
	member, err := s.memberships.IsMember(userID, code)
	if err != nil {
		return domain.Message{}, err
	}
	if !member {
		return domain.Message{}, errors.ErrNotMember
	}

	verdict := moderation.Verdict{Safe: true}
	if !isImage {
		verdict = s.gate.Review(ctx, content)
	}

	message := domain.Message{
		ID:       uuid.New(),
		RoomCode: code,
		AuthorID: userID,
		Content:  content,
		IsImage:  isImage,
		Flagged:  !verdict.Safe,
		At:       time.Now().UTC(),
	}
	if err := s.messages.Store(message); err != nil {
		return domain.Message{}, err
	}
	return message, verdict.Err
}

// Approve transitions Flagged -> Visible. Approving an already visible
// message is a no-op success.
func (s *MessageService) Approve(id uuid.UUID, actorID string) error {
	message, err := s.messages.Get(id)
	if err != nil {
		return err
	}
	allowed, err := s.memberships.IsAdminOrOwner(actorID, message)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.ErrUnauthorized
	}
	if !message.Flagged {
		return nil
	}
	return s.messages.SetFlagged(id, false)
}

// Delete removes the message row from any state.
func (s *MessageService) Delete(id uuid.UUID, actorID string) error {
	message, err := s.messages.Get(id)
	if err != nil {
		return err
	}
	allowed, err := s.memberships.IsAdminOrOwner(actorID, message)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.ErrUnauthorized
	}
	return s.messages.Delete(id)
}

// List returns the room's messages in timestamp order, suppressing
// flagged messages unless the requester authored them or is the room's
// creator-admin. Visibility is requester-relative: two members can see
// different sets for the same room at the same time.
func (s *MessageService) List(code, requesterID string) ([]domain.MessageView, error) {
	member, err := s.memberships.IsMember(requesterID, code)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errors.ErrNotMember
	}

	room, err := s.rooms.Get(code)
	if err != nil {
		return nil, err
	}
	messages, err := s.messages.ListForRoom(code)
	if err != nil {
		return nil, err
	}

	visible := lo.Filter(messages, func(m domain.Message, _ int) bool {
		return m.VisibleTo(requesterID, room.AdminID)
	})

	names := make(map[string]string, len(visible))
	views := make([]domain.MessageView, 0, len(visible))
	for _, m := range visible {
		name, ok := names[m.AuthorID]
		if !ok {
			author, err := s.users.GetByID(m.AuthorID)
			if err != nil {
				return nil, err
			}
			name = author.DisplayName()
			names[m.AuthorID] = name
		}
		views = append(views, domain.MessageView{
			ID:         m.ID,
			AuthorID:   m.AuthorID,
			AuthorName: name,
			Content:    m.Content,
			IsImage:    m.IsImage,
			Flagged:    m.Flagged,
			At:         m.At,
		})
	}
	return views, nil
}
