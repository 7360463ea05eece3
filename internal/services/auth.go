package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSignup      = errors.New("invalid signup data")
)

type AuthService interface {
	Signup(name, email, password string) (*models.User, error)
	Login(email, password string) (string, time.Time, error)
	Authenticate(token string) (string, error)
}

type interviewClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

type authService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (a *authService) Signup(name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidSignup)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidSignup)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    a.now(),
		UpdatedAt:    a.now(),
	}

	if err := a.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the password and issues a signed bearer token carrying the
// user id.
func (a *authService) Login(email, password string) (string, time.Time, error) {
	user, err := a.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.tokenTTL)
	claims := interviewClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: user.ID.String(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, expiresAt, nil
}

// Authenticate validates a bearer token and returns its userId claim once
// the user is known to exist.
func (a *authService) Authenticate(token string) (string, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", ErrUnauthorized
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)

	claims := &interviewClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}); err != nil {
		return "", ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", ErrUnauthorized
	}

	// Tokens outlive accounts; only existing users may archive interviews
	if _, err := a.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	return claims.UserID, nil
}
