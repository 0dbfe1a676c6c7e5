package services

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"roomhub/domain"
	"roomhub/errors"
	"roomhub/mocks"
)

func TestRoomService_Create(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should create room with creator admin membership", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 5, log)

		userRepo.EXPECT().GetByID("creator-1").Return(domain.User{ID: "creator-1"}, nil)

		var captured domain.Membership
		roomRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(room domain.Room, creator domain.Membership) error {
				captured = creator
				return nil
			})

		room, err := svc.Create("creator-1", "Trivia")

		req.NoError(err)
		req.Len(room.Code, 6)
		req.Equal("Trivia", room.Title)
		req.Equal("creator-1", room.AdminID)
		req.Equal(domain.DefaultTheme, room.Theme)

		req.Equal("creator-1", captured.UserID)
		req.Equal(room.Code, captured.RoomCode)
		req.True(captured.IsAdmin)
	})

	t.Run("should reject titles outside bounds before touching the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 5, log)

		for _, title := range []string{"", strings.Repeat("x", 76)} {
			_, err := svc.Create("creator-1", title)
			require.ErrorIs(t, err, errors.ErrValidation)
		}
	})

	t.Run("should accept a title of exactly 75 characters", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 5, log)

		userRepo.EXPECT().GetByID("creator-1").Return(domain.User{ID: "creator-1"}, nil)
		roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Create("creator-1", strings.Repeat("x", 75))
		req.NoError(err)
	})

	t.Run("should fail when creator does not exist", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 5, log)

		userRepo.EXPECT().GetByID("ghost").Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Create("ghost", "Trivia")
		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	t.Run("should regenerate the code on collision", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 5, log)

		userRepo.EXPECT().GetByID("creator-1").Return(domain.User{ID: "creator-1"}, nil)
		gomock.InOrder(
			roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.ErrRoomCodeTaken),
			roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
		)

		room, err := svc.Create("creator-1", "Trivia")
		req.NoError(err)
		req.Len(room.Code, 6)
	})

	t.Run("should give up after the retry budget", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		roomRepo := mocks.NewMockIRoomRepository(ctrl)
		userRepo := mocks.NewMockIUserRepository(ctrl)
		svc := NewRoomService(roomRepo, userRepo, 3, log)

		userRepo.EXPECT().GetByID("creator-1").Return(domain.User{ID: "creator-1"}, nil)
		roomRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(errors.ErrRoomCodeTaken).Times(3)

		_, err := svc.Create("creator-1", "Trivia")
		req.ErrorIs(err, errors.ErrRoomCodeExhausted)
		req.ErrorIs(err, errors.ErrConflict)
	})
}

func TestRoomService_ListFor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	roomRepo := mocks.NewMockIRoomRepository(ctrl)
	userRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewRoomService(roomRepo, userRepo, 5, log)

	roomRepo.EXPECT().ListFor("member-1").Return([]domain.Room{
		{Code: "abc123", Title: "Trivia", AdminID: "admin-1"},
	}, nil)
	userRepo.EXPECT().GetByID("admin-1").
		Return(domain.User{ID: "admin-1", FirstName: "Alice", LastName: "Martin"}, nil)

	summaries, err := svc.ListFor("member-1")
	req.NoError(err)
	req.Equal([]domain.RoomSummary{{
		Code:           "abc123",
		Title:          "Trivia",
		AdminID:        "admin-1",
		AdminFirstName: "Alice",
		AdminLastName:  "Martin",
	}}, summaries)
}

func TestRoomService_Theme(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	roomRepo := mocks.NewMockIRoomRepository(ctrl)
	userRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewRoomService(roomRepo, userRepo, 5, log)

	roomRepo.EXPECT().Get("abc123").Return(domain.Room{Code: "abc123", Theme: "default"}, nil)
	theme, err := svc.Theme("abc123")
	req.NoError(err)
	req.Equal("default", theme)

	roomRepo.EXPECT().Get("zzz999").Return(domain.Room{}, errors.ErrRoomNotFound)
	_, err = svc.Theme("zzz999")
	req.ErrorIs(err, errors.ErrRoomNotFound)
}
