package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vms/api/internal/config"
	"vms/api/internal/ids"
	"vms/api/internal/models"
	"vms/api/internal/security"
	"vms/api/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidRole        = errors.New("invalid role")
)

type AuthService struct {
	store store.Store
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(st store.Store, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{store: st, cfg: cfg, log: log}
}

type SignupInput struct {
	Email      string
	Password   string
	Name       string
	Role       string
	Department string
	Phone      string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

// Signup creates an account and opens a session for it. Role defaults
// to host; only the four known roles are accepted.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	user, err := s.createUser(ctx, input)
	if err != nil {
		return AuthResult{}, err
	}
	return s.openSession(ctx, user, "", "")
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.store.FindUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.openSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) openSession(ctx context.Context, user models.User, ip string, userAgent string) (AuthResult, error) {
	refreshToken, refreshHash, err := security.GenerateRefreshToken()
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:               ids.New(),
		UserID:           user.ID,
		RefreshTokenHash: refreshHash,
		IPAddress:        ip,
		UserAgent:        userAgent,
		CreatedAt:        time.Now(),
		LastSeenAt:       time.Now(),
		ExpiresAt:        time.Now().Add(s.cfg.Security.RefreshTTL),
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		session.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return AuthResult{}, err
	}

	if err := s.store.TrimSessions(ctx, user.ID, s.cfg.Security.MaxSessions); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("trim sessions failed")
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

type RefreshInput struct {
	UserID       string
	RefreshToken string
}

func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (AuthResult, error) {
	user, err := s.store.GetUserByID(ctx, input.UserID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	refreshHash := security.HashRefreshToken(input.RefreshToken)
	session, err := s.store.FindSessionByRefreshHash(ctx, user.ID, refreshHash)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if session.ExpiresAt.Before(time.Now()) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return AuthResult{}, ErrInvalidCredentials
	}

	refreshToken, newHash, err := security.GenerateRefreshToken()
	if err != nil {
		return AuthResult{}, err
	}

	expiresAt := time.Now().Add(s.cfg.Security.RefreshTTL)
	if err := s.store.UpdateSessionRefresh(ctx, session.ID, newHash, expiresAt); err != nil {
		return AuthResult{}, err
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		session.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	err := s.store.DeleteSession(ctx, sessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return nil
	}
	return err
}

// CreateUser is the admin-initiated account creation path. No session
// is opened for the new account.
func (s *AuthService) CreateUser(ctx context.Context, input SignupInput) (models.User, error) {
	return s.createUser(ctx, input)
}

func (s *AuthService) createUser(ctx context.Context, input SignupInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return models.User{}, errors.New("email, password, and name are required")
	}
	if len(input.Password) < 6 {
		return models.User{}, ErrPasswordTooShort
	}

	role := models.UserRole(input.Role)
	if input.Role == "" {
		role = models.UserRoleHost
	}
	if !models.ValidRole(role) {
		return models.User{}, ErrInvalidRole
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if input.Department != "" {
		user.Department = &input.Department
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
