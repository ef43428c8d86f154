package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/soulpet-ai/soulpet-api/internal/domain/entity"
	"github.com/soulpet-ai/soulpet-api/pkg/helpers"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityService issues sessions on top of the companion profiles.
// Credentials are bcrypt hashes in Redis; emails that never registered
// still log in and receive the demo profile, so the password check
// only applies to accounts that actually set one.
type IdentityService struct {
	Companion *CompanionService
	JWT       *helpers.JWTManager
	Redis     *redis.Client
	Logger    *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewIdentityService(companionSvc *CompanionService, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *IdentityService {
	return &IdentityService{Companion: companionSvc, JWT: jwt, Redis: rdb, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func credKey(email string) string {
	return "companion:cred:" + email
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates the profile and stores the password hash.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (*entity.User, TokenPair, error) {
	u, err := s.Companion.Register(ctx, email, name)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if s.Redis != nil && password != "" {
		hash, hErr := helpers.HashPassword(password)
		if hErr != nil {
			return nil, TokenPair{}, hErr
		}
		if rErr := s.Redis.Set(ctx, credKey(email), hash, 0).Err(); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("email", email).Warn("credential write failed")
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Login authenticates and resolves the profile.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	if s.Redis != nil {
		hash, err := s.Redis.Get(ctx, credKey(email)).Result()
		if err == nil && hash != "" && !helpers.CompareHashAndPassword(hash, password) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
	}
	u, err := s.Companion.Login(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates an access/refresh pair and records the session
// in Redis.
func (s *IdentityService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and both tokens.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Companion.Bootstrap(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}

	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		_, _ = pipe.Exec(ctx)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, u.ID, nil
}

// Logout drops the server side session. The profile itself stays.
func (s *IdentityService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, sessionKey(userID)).Err()
}
