package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration.
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Retry configuration for the initial connect.
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultConfig returns defaults suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          6379,
		DB:            0,
		PoolSize:      50,
		MinIdleConns:  5,
		DialTimeout:   5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
}

// Addr returns the host:port address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps redis.Client.
type Client struct {
	client *redis.Client
	config *Config
}

// NewClient connects to Redis, retrying the initial ping.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(cfg.RetryInterval)
		}
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return &Client{client: client, config: cfg}, nil
		}
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// Raw returns the underlying redis.Client.
func (c *Client) Raw() *redis.Client {
	return c.client
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Get retrieves a string key.
func (c *Client) Get(ctx context.Context, key string) *redis.StringCmd {
	return c.client.Get(ctx, key)
}

// Set stores a key with a TTL.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	return c.client.Set(ctx, key, value, expiration)
}

// SetNX stores a key only if it does not exist.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	return c.client.SetNX(ctx, key, value, expiration)
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return c.client.Del(ctx, keys...)
}

// Exists checks if keys exist.
func (c *Client) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	return c.client.Exists(ctx, keys...)
}

// Expire sets a TTL on a key.
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return c.client.Expire(ctx, key, expiration)
}

// TTL reads the TTL of a key.
func (c *Client) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return c.client.TTL(ctx, key)
}
