package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frscdev/offence-register/internal/models"
	"github.com/frscdev/offence-register/internal/store"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrVehicleRequired    = errors.New("vehicle number is required")
)

// SessionStore persists the logged-in identity across restarts.
type SessionStore interface {
	LoadSession(ctx context.Context) (*models.Identity, error)
	SaveSession(ctx context.Context, identity models.Identity) error
	ClearSession(ctx context.Context) error
}

// Service handles login, logout, and token operations.
//
// There is exactly one admin credential pair, taken from the environment at
// startup. Vehicle-owner logins carry no password: any non-empty vehicle
// number is accepted and reused as the identity key. This is advisory access
// control, not a security boundary.
type Service struct {
	jwtSecret  []byte
	tokenExp   time.Duration
	adminEmail string
	adminHash  string
	sessions   SessionStore
}

// NewService creates a new authentication service.
func NewService(sessions SessionStore) (*Service, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
	}

	expStr := os.Getenv("JWT_EXPIRY")
	exp := 24 * time.Hour // default 24 hours
	if expStr != "" {
		if parsed, err := time.ParseDuration(expStr); err == nil {
			exp = parsed
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@frsc.gov.ng"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "12345"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return &Service{
		jwtSecret:  []byte(secret),
		tokenExp:   exp,
		adminEmail: adminEmail,
		adminHash:  string(hash),
		sessions:   sessions,
	}, nil
}

// LoginAdmin authenticates the single admin credential pair. On success the
// identity is persisted to the session slot.
func (s *Service) LoginAdmin(ctx context.Context, email, password string) (*models.Identity, error) {
	if email != s.adminEmail || !s.CheckPassword(password, s.adminHash) {
		return nil, ErrInvalidCredentials
	}

	identity := models.Identity{Email: email, Role: models.RoleAdmin}
	if err := s.sessions.SaveSession(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &identity, nil
}

// LoginVehicle creates a vehicle-owner identity keyed by the vehicle number.
// The trimmed input must be non-empty; it is uppercased to match the
// normalization applied to recorded offences.
func (s *Service) LoginVehicle(ctx context.Context, vehicleNumber string) (*models.Identity, error) {
	vehicleNumber = strings.ToUpper(strings.TrimSpace(vehicleNumber))
	if vehicleNumber == "" {
		return nil, ErrVehicleRequired
	}

	identity := models.Identity{Email: vehicleNumber, Role: models.RoleUser}
	if err := s.sessions.SaveSession(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &identity, nil
}

// Logout clears the persisted identity. Logging out while logged out is a
// no-op.
func (s *Service) Logout(ctx context.Context) error {
	return s.sessions.ClearSession(ctx)
}

// CurrentIdentity restores the persisted identity, or returns nil when no
// one is logged in.
func (s *Service) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	identity, err := s.sessions.LoadSession(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return identity, nil
}

// CheckPassword checks if a password matches a bcrypt hash.
func (s *Service) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a JWT token for an identity.
func (s *Service) GenerateToken(identity *models.Identity) (string, error) {
	claims := jwt.MapClaims{
		"email": identity.Email,
		"role":  string(identity.Role),
		"exp":   time.Now().Add(s.tokenExp).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, ok := mapClaims["email"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	roleStr, ok := mapClaims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		Email: email,
		Role:  models.Role(roleStr),
		Exp:   int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header.
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
