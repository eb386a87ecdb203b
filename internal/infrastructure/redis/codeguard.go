package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// CodeTTL covers the current TOTP step plus one step of skew either side.
const CodeTTL = 90 * time.Second

type setNXer interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
}

// CodeGuard records accepted second-factor codes so each one is usable once.
type CodeGuard struct {
	client setNXer
	ttl    time.Duration
}

func NewCodeGuard(client *goredis.Client) *CodeGuard {
	return &CodeGuard{client: client, ttl: CodeTTL}
}

// NewClient parses a redis:// URL and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Claim returns true the first time (adminID, code) is seen within the TTL.
func (g *CodeGuard) Claim(ctx context.Context, adminID, code string) (bool, error) {
	ok, err := g.client.SetNX(ctx, codeKey(adminID, code), 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func codeKey(adminID, code string) string {
	return fmt.Sprintf("admin:2fa:%s:%s", adminID, code)
}
