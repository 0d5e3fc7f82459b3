package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"condy-http-service/internal/infrastructure/config"
)

// InterfaceRedisService defines the cache service interface.
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	PushRecentCondo(userID, condoID uint) error
	GetRecentCondoIDs(userID uint) ([]uint, error)
	HealthCheck() error
}

// RedisService handles Redis operations, including the per-user recent
// condo lists consumed by the resolver.
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
	limit  int
}

// NewRedisService creates a new Redis service.
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
		limit:  cfg.RecentCondoLimit,
	}
}

// Set stores a JSON-encoded value with expiration.
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get fetches a JSON-encoded value into dest.
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete removes a key.
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

func recentCondoKey(userID uint) string {
	return "recent_condos:" + strconv.FormatUint(uint64(userID), 10)
}

// PushRecentCondo records that a user targeted a condo, keeping the list
// deduplicated and trimmed to the configured length.
func (s *RedisService) PushRecentCondo(userID, condoID uint) error {
	key := recentCondoKey(userID)
	member := strconv.FormatUint(uint64(condoID), 10)

	pipe := s.Client.TxPipeline()
	pipe.LRem(s.Ctx, key, 0, member)
	pipe.LPush(s.Ctx, key, member)
	pipe.LTrim(s.Ctx, key, 0, int64(s.limit-1))
	pipe.Expire(s.Ctx, key, 90*24*time.Hour)
	_, err := pipe.Exec(s.Ctx)
	return err
}

// GetRecentCondoIDs returns the user's recent condo ids, most recent first.
func (s *RedisService) GetRecentCondoIDs(userID uint) ([]uint, error) {
	values, err := s.Client.LRange(s.Ctx, recentCondoKey(userID), 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// HealthCheck pings Redis.
func (s *RedisService) HealthCheck() error {
	ctx, cancel := context.WithTimeout(s.Ctx, 3*time.Second)
	defer cancel()
	return s.Client.Ping(ctx).Err()
}
