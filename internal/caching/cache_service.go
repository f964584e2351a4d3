package caching

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"curepharmax/internal/models"
)

type CacheService interface {
	// Dashboard stats caching
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
	SetDashboardStats(ctx context.Context, stats *models.DashboardStats, ttl time.Duration) error
	InvalidateDashboardStats(ctx context.Context) error

	// Pending online-order count, used by the admin notifier
	GetPendingOrderCount(ctx context.Context) (int64, bool, error)
	SetPendingOrderCount(ctx context.Context, count int64) error

	Ping(ctx context.Context) error

	// Client returns the underlying redis client for stores that need it.
	Client() *redis.Client
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port as well as a bare host:port.
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

const (
	dashboardStatsKey = "curepharma:dashboard:stats"
	pendingCountKey   = "curepharma:orders:pending_count"
)

func (r *redisCacheService) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	data, err := r.client.Get(ctx, dashboardStatsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *redisCacheService) SetDashboardStats(ctx context.Context, stats *models.DashboardStats, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardStatsKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateDashboardStats(ctx context.Context) error {
	return r.client.Del(ctx, dashboardStatsKey).Err()
}

func (r *redisCacheService) GetPendingOrderCount(ctx context.Context) (int64, bool, error) {
	n, err := r.client.Get(ctx, pendingCountKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	return n, true, nil
}

func (r *redisCacheService) SetPendingOrderCount(ctx context.Context, count int64) error {
	return r.client.Set(ctx, pendingCountKey, count, 0).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Client() *redis.Client {
	return r.client
}
