package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/hash"
	"github.com/mstepanov/storefront/internal/models"
	"github.com/mstepanov/storefront/internal/repo"
	"github.com/mstepanov/storefront/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type LoginResult struct {
	User *models.User
	TokenPair
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
	}

	if user.Status == models.UserStatusBanned {
		return nil, fmt.Errorf("%w: account is banned", ErrForbidden)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, TokenPair: *pair}, nil
}

// Rotate exchanges a valid, unrevoked refresh token for a fresh pair. The
// old token is revoked so each refresh token works exactly once.
func (s *AuthService) Rotate(ctx context.Context, rawToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(rawToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
	}

	stored, err := s.Repo.GetRefreshToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refresh token not found", ErrValidation)
		}
		return nil, err
	}
	if stored.Revoked {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrValidation)
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, fmt.Errorf("%w: refresh token expired", ErrValidation)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == models.UserStatusBanned {
		return nil, fmt.Errorf("%w: account is banned", ErrForbidden)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, rawToken); err != nil {
		return nil, err
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, TokenPair: *pair}, nil
}

func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, rawToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	refreshExp := time.Now().Add(tokens.RefreshTTL)

	access, err := tokens.SignAccessToken(user.ID, user.Role, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refresh, err := tokens.SignRefreshToken(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refresh, user.ID, refreshExp.Unix()); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
