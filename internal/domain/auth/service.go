package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"personnel/internal/apperr"
)

var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

type Service struct {
	Store    StoreAPI
	Secret   string
	TokenTTL time.Duration
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

func (s *Service) Login(ctx context.Context, login, password string) (LoginResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	user, err := s.Store.FindActiveUser(ctx, login)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Username: user.Username, RoleName: user.Role}, s.TokenTTL)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "sign token")
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("last login update failed")
	}
	return LoginResult{Token: token, ExpiresAt: time.Now().Add(s.TokenTTL), User: user}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (User, error) {
	return s.Store.GetUser(ctx, userID)
}

// CreateUser hashes the password and validates the role.
func (s *Service) CreateUser(ctx context.Context, username, email, password, role string) (User, error) {
	normalized, ok := NormalizeRole(role)
	if !ok {
		return User{}, apperr.Validation("unknown role: " + role)
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || len(password) < 6 {
		return User{}, apperr.Validation("username, email and a password of at least 6 characters are required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.Store.CreateUser(ctx, User{Username: username, Email: email, PasswordHash: hash, Role: normalized})
}

// EnsureAdmin creates the bootstrap admin when no user exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	count, err := s.Store.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.CreateUser(ctx, username, email, password, RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
