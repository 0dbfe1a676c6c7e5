package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"roomhub/auth"
	"roomhub/domain"
	"roomhub/errors"
	"roomhub/mocks"
)

func newAuthFixture(t *testing.T) (IAuthService, *mocks.MockIUserRepository, *auth.TokenManager) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens), users, tokens
}

func TestAuthService_Register(t *testing.T) {
	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		svc, users, tokens := newAuthFixture(t)

		// The repository must receive a hash, never the plain password.
		users.EXPECT().
			Create("alice@example.com", gomock.Not("SuperSecret1!"), "Alice", "Martin").
			Return("user-uuid", nil)

		token, err := svc.Register(auth.SignupRequest{
			Email:     "alice@example.com",
			Password:  "SuperSecret1!",
			FirstName: "Alice",
			LastName:  "Martin",
		})

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := tokens.Validate(string(token))
		req.NoError(err)
		req.Equal("user-uuid", claims.UserID)
	})

	t.Run("should fail on invalid input before touching the repository", func(t *testing.T) {
		req := require.New(t)
		svc, users, _ := newAuthFixture(t)

		users.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(auth.SignupRequest{
			Email:     "alice@example.com",
			Password:  "short",
			FirstName: "Alice",
			LastName:  "Martin",
		})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should propagate the duplicate email conflict", func(t *testing.T) {
		req := require.New(t)
		svc, users, _ := newAuthFixture(t)

		users.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.ErrEmailTaken)

		_, err := svc.Register(auth.SignupRequest{
			Email:     "duplicate@example.com",
			Password:  "SuperSecret1!",
			FirstName: "Bob",
			LastName:  "Stone",
		})
		req.ErrorIs(err, errors.ErrEmailTaken)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		svc, users, tokens := newAuthFixture(t)

		hashedPassword, err := auth.HashPassword("SuperSecret1!")
		req.NoError(err)
		users.EXPECT().GetByEmail("alice@example.com").Return(domain.User{
			ID:           "user-uuid",
			Email:        "alice@example.com",
			PasswordHash: hashedPassword,
		}, nil)

		token, err := svc.Login("alice@example.com", "SuperSecret1!")
		req.NoError(err)

		claims, err := tokens.Validate(string(token))
		req.NoError(err)
		req.Equal("user-uuid", claims.UserID)
	})

	t.Run("should return invalid credentials on a wrong password", func(t *testing.T) {
		req := require.New(t)
		svc, users, _ := newAuthFixture(t)

		hashedPassword, err := auth.HashPassword("SuperSecret1!")
		req.NoError(err)
		users.EXPECT().GetByEmail("alice@example.com").Return(domain.User{
			PasswordHash: hashedPassword,
		}, nil)

		_, err = svc.Login("alice@example.com", "wrongpassword")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials for an unknown user", func(t *testing.T) {
		req := require.New(t)
		svc, users, _ := newAuthFixture(t)

		users.EXPECT().GetByEmail("ghost@example.com").
			Return(domain.User{}, errors.ErrUserNotFound)

		_, err := svc.Login("ghost@example.com", "anything")
		// No user enumeration: same error as a bad password.
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_LookupID(t *testing.T) {
	req := require.New(t)
	svc, users, _ := newAuthFixture(t)

	users.EXPECT().GetByEmail("alice@example.com").
		Return(domain.User{ID: "user-uuid"}, nil)

	id, err := svc.LookupID("alice@example.com")
	req.NoError(err)
	req.Equal("user-uuid", id)

	users.EXPECT().GetByEmail("ghost@example.com").
		Return(domain.User{}, errors.ErrUserNotFound)
	_, err = svc.LookupID("ghost@example.com")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
