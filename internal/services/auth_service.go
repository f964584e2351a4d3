package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"curepharmax/internal/common"
	"curepharmax/internal/models"
	"curepharmax/internal/repositories"
)

var (
	// ErrInvalidCredentials is returned for both unknown phones and wrong
	// passwords so login failures are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid phone number or password")

	// ErrPhoneTaken is returned when a signup reuses a registered phone.
	ErrPhoneTaken = errors.New("an account with this phone number already exists")
)

// SessionClaims is the JWT payload carried in the session cookie.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionTTL bounds how long a login stays valid.
const SessionTTL = 7 * 24 * time.Hour

type AuthService interface {
	Signup(ctx context.Context, name, phone, password string) (*models.User, error)
	Login(ctx context.Context, phone, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	IssueSessionToken(user *models.User) (string, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	adminPhones func(phone string) bool
}

// NewAuthService creates the authentication service. isAdminPhone decides
// which signups get the admin role.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, isAdminPhone func(string) bool) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		adminPhones: isAdminPhone,
	}
}

func (s *authService) Signup(ctx context.Context, name, phone, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := common.RoleCustomer
	if s.adminPhones != nil && s.adminPhones(phone) {
		role = common.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, phone, password string) (*models.User, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// IssueSessionToken signs a session JWT for the user.
func (s *authService) IssueSessionToken(user *models.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID.String(),
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "curepharmax",
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
