package services

import (
	"roomhub/auth"
	"roomhub/errors"
	"roomhub/repositories"
)

type IAuthService interface {
	Register(req auth.SignupRequest) (Token, error)
	Login(email, password string) (Token, error)
	LookupID(email string) (string, error)
}

type AuthService struct {
	users  repositories.IUserRepository
	tokens *auth.TokenManager
}

type Token string

func NewAuthService(users repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(req auth.SignupRequest) (Token, error) {
	// Validate before any expensive cryptographic operation.
	if err := auth.ValidateSignup(req); err != nil {
		return "", err
	}

	// Hash here so the repository never sees a plain password.
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	// Propagates ErrEmailTaken when the email is already registered.
	userID, err := s.users.Create(req.Email, hashedPassword, req.FirstName, req.LastName)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(email, password string) (Token, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks.
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

// LookupID resolves an email to the account id.
func (s *AuthService) LookupID(email string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}
