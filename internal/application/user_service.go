package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	repo "github.com/oksasatya/skinsync/internal/domain/repository"
	"github.com/oksasatya/skinsync/pkg/helpers"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72
)

// UserService owns registration, login and the token to user mapping.
type UserService struct {
	Repo     repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionCache // nil without Redis
	Logger   *logrus.Logger
	Events   EventPublisher
	Now      func() time.Time
}

// Session is what the client keeps after register or login.
type Session struct {
	UserID      string    `json:"id"`
	Username    string    `json:"username"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"-"`
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, events EventPublisher) *UserService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	s := &UserService{Repo: r, JWT: jwt, Logger: logger, Events: events, Now: time.Now}
	if rdb != nil {
		s.Sessions = NewRedisSessionCache(rdb)
	}
	return s
}

// Register creates the account and opens its first session.
func (s *UserService) Register(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password needs to be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, maxPasswordBytes)
	}

	if _, err := s.Repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Username: username, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Logger, NewEvent(EventUserRegistered, u.ID, s.Now(), map[string]any{"username": u.Username}))
	return sess, nil
}

// Login checks the password and replaces any previous session of the user.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.Events, s.Logger, NewEvent(EventUserLoggedIn, u.ID, s.Now(), nil))
	return sess, nil
}

// Logout clears the stored token so it no longer resolves.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.Repo.SetAccessToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("clear token: %w", err)
	}
	s.dropSession(ctx, userID)
	publish(ctx, s.Events, s.Logger, NewEvent(EventUserLoggedOut, userID, s.Now(), nil))
	return nil
}

// Resolve maps a session token to its user. Any failure is ErrNotLoggedIn
// except storage errors, which are returned wrapped.
func (s *UserService) Resolve(ctx context.Context, token string) (*entity.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotLoggedIn
	}
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		return nil, ErrNotLoggedIn
	}

	if s.Sessions != nil {
		sid, username, cErr := s.Sessions.Get(ctx, claims.UserID)
		if cErr == nil && sid != "" && sid == claims.SessionID && username != "" {
			return &entity.User{ID: claims.UserID, Username: username, AccessToken: token}, nil
		}
		if cErr != nil {
			s.Logger.WithError(cErr).WithField("user_id", claims.UserID).Warn("session cache lookup failed")
		}
	}

	u, err := s.Repo.GetByAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if u.ID != claims.UserID {
		return nil, ErrNotLoggedIn
	}
	if s.Sessions == nil {
		return u, nil
	}
	s.cacheSession(ctx, u, claims.SessionID)

	// A logout that cleared the token before the write above must not leave
	// the session cached; one that clears it after drops the entry itself.
	again, err := s.Repo.GetByAccessToken(ctx, token)
	if err != nil || again.ID != u.ID {
		s.dropSession(ctx, u.ID)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("lookup token: %w", err)
		}
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) issueSession(ctx context.Context, u *entity.User) (*Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.Repo.SetAccessToken(ctx, u.ID, token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	u.AccessToken = token
	s.cacheSession(ctx, u, sid)
	return &Session{UserID: u.ID, Username: u.Username, AccessToken: token, ExpiresAt: exp}, nil
}

func (s *UserService) cacheSession(ctx context.Context, u *entity.User, sid string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Put(ctx, u.ID, u.Username, sid, s.JWT.AccessTTL); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("session cache write failed")
	}
}

func (s *UserService) dropSession(ctx context.Context, userID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.Drop(ctx, userID); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session cache delete failed")
	}
}
