package service

import (
	"context"

	"quiz_hub_backend/internal/config"
	"quiz_hub_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const refreshKeyPrefix = "refresh_token:"

// TokenService 签发 access/refresh 令牌对。
// access 是 HS256 JWT，refresh 是存在 Redis 里的不透明令牌（带 TTL）。
type TokenService struct {
	Auth *AuthService
	RDB  *redis.Client
	Cfg  *config.Config
}

func NewTokenService(auth *AuthService, rdb *redis.Client, cfg *config.Config) *TokenService {
	return &TokenService{Auth: auth, RDB: rdb, Cfg: cfg}
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *TokenService) IssuePair(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.Auth.Authenticate(email, password)
	if err != nil {
		return nil, err
	}

	access, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	refresh := uuid.New().String()
	if err := s.RDB.Set(ctx, refreshKeyPrefix+refresh, user.ID, s.Cfg.JWT.RefreshExpire).Err(); err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh 用 refresh 令牌换新的 access；refresh 不轮换，到期前一直有效
func (s *TokenService) Refresh(ctx context.Context, refresh string) (string, error) {
	userID, err := s.RDB.Get(ctx, refreshKeyPrefix+refresh).Result()
	if err == redis.Nil {
		return "", util.ErrInvalidRefresh
	}
	if err != nil {
		return "", err
	}

	user, err := s.Auth.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrInvalidRefresh
	}
	if !user.IsActive {
		return "", util.ErrAccountDisabled
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *TokenService) Revoke(ctx context.Context, refresh string) error {
	return s.RDB.Del(ctx, refreshKeyPrefix+refresh).Err()
}
