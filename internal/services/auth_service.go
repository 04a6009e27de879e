package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/access"
	"github.com/adanyl0v/task-tracker/internal/models"
)

type authServiceImpl struct {
	logger zerolog.Logger
	users  UserService
	hasher PasswordHasher
	tokens TokenManager
}

func NewAuthService(
	logger zerolog.Logger,
	users UserService,
	hasher PasswordHasher,
	tokens TokenManager,
) AuthService {
	return &authServiceImpl{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if params.Role == "" {
		params.Role = models.RoleBasic
	}

	_, err := s.users.GetByUsername(ctx, params.Username)
	if err == nil {
		s.logger.Error().
			Str("username", params.Username).
			Msg("user with this username already exists")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	_, err = s.users.GetByEmail(ctx, params.Email)
	if err == nil {
		s.logger.Error().
			Str("email", params.Email).
			Msg("user with this email already exists")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user, err := s.users.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("role", user.Role).
		Msg("registered user")
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Compare(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().
			Int64("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(access.Identity{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to issue access token")
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("logged in")
	return &LoginResult{
		User:           user,
		AccessToken:    token,
		TokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) ParseToken(token string) (*access.Identity, error) {
	return s.tokens.Parse(token)
}
