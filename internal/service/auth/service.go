package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"leantime-watchers/internal/config"
	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/i18n"
	"leantime-watchers/internal/repository"
	"leantime-watchers/internal/service/setting"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUserNotFound = errors.New("user not found")
)

type Service interface {
	IssueToken(userID int64, ttl time.Duration) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
	BuildSession(ctx context.Context, userID int64) (*domain.Session, error)
}

type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

type service struct {
	userRepo repository.UserRepository
	settings setting.Service
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, settings setting.Service, cfg *config.Config) Service {
	return &service{
		userRepo: userRepo,
		settings: settings,
		cfg:      cfg,
	}
}

// IssueToken signs an access token for the host user. Used by the CLI and tests.
func (s *service) IssueToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// BuildSession loads the user and its language preference.
func (s *service) BuildSession(ctx context.Context, userID int64) (*domain.Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	fallback := s.cfg.DefaultLanguage
	if fallback == "" {
		fallback = i18n.DefaultLanguage
	}

	return &domain.Session{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Language: s.settings.GetOr(ctx, fallback,
			setting.UserKey(user.ID, "language"),
			setting.CompanyKey("language"),
		),
	}, nil
}
