package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"
)

const (
	payrollConfigKeyPrefix = "settings:payroll:"
	rulesConfigKeyPrefix   = "settings:attendance-rules:"
)

type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	return &SettingsCache{client: client, ttl: ttl}
}

func PayrollConfigKey(companyID string) string {
	return payrollConfigKeyPrefix + companyID
}

func RulesConfigKey(companyID string) string {
	return rulesConfigKeyPrefix + companyID
}

func (c *SettingsCache) GetPayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, bool, error) {
	var cfg payroll.PayrollConfig
	found, err := c.get(ctx, PayrollConfigKey(companyID), &cfg)
	if err != nil || !found {
		return payroll.PayrollConfig{}, found, err
	}
	return cfg, true, nil
}

func (c *SettingsCache) SetPayrollConfig(ctx context.Context, cfg payroll.PayrollConfig) error {
	return c.set(ctx, PayrollConfigKey(cfg.CompanyID), cfg)
}

func (c *SettingsCache) GetRulesConfig(ctx context.Context, companyID string) (attendance.RulesConfig, bool, error) {
	var rules attendance.RulesConfig
	found, err := c.get(ctx, RulesConfigKey(companyID), &rules)
	if err != nil || !found {
		return attendance.RulesConfig{}, found, err
	}
	return rules, true, nil
}

func (c *SettingsCache) SetRulesConfig(ctx context.Context, rules attendance.RulesConfig) error {
	return c.set(ctx, RulesConfigKey(rules.CompanyID), rules)
}

func (c *SettingsCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *SettingsCache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}
