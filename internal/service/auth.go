package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/somnus-app/backend/internal/models"
	"github.com/somnus-app/backend/internal/repository"
)

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// Login finds or creates the user for the given email and issues an
// opaque bearer token. There is no password: this surface is a thin
// session bootstrap, and the heavy credential work belongs to the
// wearable collaborator.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		user = &models.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Timezone:  "UTC",
			CreatedAt: time.Now().UTC(),
		}
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Store(ctx, token, user.ID); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken:     token,
		UserID:          user.ID,
		Email:           user.Email,
		GarminConnected: user.GarminConnected,
	}, nil
}

func (s *authService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// newSessionToken returns 32 bytes of urlsafe randomness.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
