package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"linkshelf/internal/domain"
	"linkshelf/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing
const BcryptCost = 10

// dummyHash is a bcrypt hash of an unguessable throwaway value. The
// login miss path compares against it so that an unknown username
// costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// SessionClaims is carried in the session token and becomes the
// request-scoped identity {username, role}.
type SessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	ChangePassword(ctx context.Context, username, newPassword string) error
	ValidateSession(token string) (*SessionClaims, error)
	SessionTTL() time.Duration
}

type authService struct {
	userRepo      repository.UserRepository
	sessionSecret string
	sessionTTL    time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, sessionSecret string, sessionTTLMinutes int) AuthService {
	return &authService{
		userRepo:      userRepo,
		sessionSecret: sessionSecret,
		sessionTTL:    time.Duration(sessionTTLMinutes) * time.Minute,
	}
}

// EnsureDefaultAdmin creates the bootstrap admin account if no user
// with that username exists. Idempotent: a concurrent creation losing
// the race against the unique constraint is treated as success.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	return nil
}

// Login authenticates a user and returns a signed session token.
// Failures are indistinguishable between unknown username and wrong
// password, in both message and timing.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a hash comparison so the miss path costs the same
			// as a wrong password.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	return token, user, nil
}

// ChangePassword replaces the stored hash for a user
func (s *authService) ChangePassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return &ValidationError{Field: "new_password", Message: "must not be empty"}
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.SetPasswordHash(ctx, username, hash); err != nil {
		return err
	}

	return nil
}

// ValidateSession parses and verifies a session token
func (s *authService) ValidateSession(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

func (s *authService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *authService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *authService) generateSessionToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.sessionSecret))
}
