package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/SubashG45/Task-Management/internal/domain/entity"
	repo "github.com/SubashG45/Task-Management/internal/domain/repository"
	"github.com/SubashG45/Task-Management/pkg/helpers"
	"github.com/SubashG45/Task-Management/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login and profile lookup. Token
// verification itself lives in middleware; this service only issues tokens.
type AuthService struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Pub    *helpers.RabbitPublisher
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Redis: rdb, Logger: logger, Pub: pub}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Register creates an account with a bcrypt-hashed password and queues a
// welcome email when a publisher is configured.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*entity.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{Email: email, Username: username, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if s.Pub != nil {
		if err := s.Pub.PublishJSON(ctx, mailer.WelcomeEmail(u.Email, u.Username)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email publish failed")
		}
	}
	return u, nil
}

// Login validates credentials and returns a signed access token. A session
// record is kept in Redis for observability; token validity does not depend
// on it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, "", time.Time{}, err
	}

	if s.Redis != nil {
		session := map[string]any{
			"user_id":   u.ID,
			"email":     u.Email,
			"username":  u.Username,
			"logged_in": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := helpers.RedisSetJSON(ctx, s.Redis, sessionKey(u.ID), session, time.Until(exp)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session record failed")
		}
	}
	return u, token, exp, nil
}

// Profile returns the account for a verified identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
