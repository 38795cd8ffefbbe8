package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"notesapi/internal/domain/entity"
	"notesapi/internal/domain/repository"
	"notesapi/pkg/helpers"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

const resolveCacheTTL = 2 * time.Minute

// AuthService orchestrates sign-up, sign-in, and token resolution.
// Redis and Events are optional; the service degrades to repo-only lookups.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Events *helpers.RabbitPublisher
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, events *helpers.RabbitPublisher) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger, Events: events}
}

// cachedUser is the Redis shape for resolved users. The password hash is
// stripped before caching; nothing downstream of resolution needs it.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func resolveKey(userID string) string {
	return "user:resolved:" + userID
}

// NormalizeEmail lowercases and trims an email for comparison and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp hashes the password and persists a new user. A duplicate email, in
// any case variant, yields ErrEmailTaken; the store enforces uniqueness
// atomically so concurrent sign-ups cannot both succeed.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    NormalizeEmail(email),
		Name:     strings.TrimSpace(name),
		Password: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("new user registered")
	}
	publishEvent(ctx, s.Events, s.Logger, "user.signup", u.ID, "")
	return u, nil
}

// SignIn verifies credentials and issues a token. Unknown email and wrong
// password return the same error so the response never reveals which failed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		}
		return nil, "", time.Time{}, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user signed in")
	}
	publishEvent(ctx, s.Events, s.Logger, "user.signin", u.ID, "")
	return u, token, exp, nil
}

// Resolve validates a bearer token and loads its subject. A token whose user
// no longer exists is unauthenticated. All failure modes collapse into
// ErrUnauthenticated; only the internal log distinguishes them.
func (s *AuthService) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		if s.Logger != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				s.Logger.Debug("token rejected: expired")
			} else {
				s.Logger.WithError(err).Debug("token rejected")
			}
		}
		return nil, ErrUnauthenticated
	}

	if s.Redis != nil {
		var cu cachedUser
		if ok, cErr := helpers.RedisGetJSON(ctx, s.Redis, resolveKey(claims.UserID), &cu); cErr == nil && ok {
			return &entity.User{ID: cu.ID, Email: cu.Email, Name: cu.Name, CreatedAt: cu.CreatedAt, UpdatedAt: cu.UpdatedAt}, nil
		}
	}

	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.Logger != nil {
				s.Logger.WithField("user_id", claims.UserID).Debug("token rejected: subject no longer exists")
			}
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if s.Redis != nil {
		cu := cachedUser{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
		if cErr := helpers.RedisSetJSON(ctx, s.Redis, resolveKey(u.ID), cu, resolveCacheTTL); cErr != nil && s.Logger != nil {
			s.Logger.WithError(cErr).Warn("resolve cache write failed")
		}
	}
	return u, nil
}

// Refresh issues a new token for an already-authenticated user. Tokens are
// stateless, so the previous one stays valid until its own expiry.
func (s *AuthService) Refresh(u *entity.User) (string, time.Time, error) {
	return s.JWT.Generate(u.ID)
}
