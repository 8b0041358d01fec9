// Package ratelimit throttles login attempts with a Redis-backed fixed
// window, keyed per account email and per client IP.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/babalolajnr/todo-api/internal/common"
)

// ErrUnavailable marks a Redis failure. It is a server fault, distinct from
// common.ErrRateLimited, and must never be reported as "limited".
var ErrUnavailable = errors.New("rate limiter unavailable")

type LoginLimiter struct {
	redis       *redis.Client
	window      time.Duration
	maxAttempts int
}

func NewLoginLimiter(client *redis.Client, window time.Duration, maxAttempts int) *LoginLimiter {
	return &LoginLimiter{redis: client, window: window, maxAttempts: maxAttempts}
}

// Enforce counts one attempt against both keys and returns
// common.ErrRateLimited once either exceeds the window budget.
func (l *LoginLimiter) Enforce(ctx context.Context, email, ip string) error {
	if err := l.enforceKey(ctx, loginEmailKey(email)); err != nil {
		return err
	}

	if ip != "" {
		if err := l.enforceKey(ctx, loginIPKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

func (l *LoginLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(l.maxAttempts) {
		return common.ErrRateLimited
	}

	return nil
}

func loginEmailKey(email string) string {
	return "login:" + strings.ToLower(email)
}

func loginIPKey(ip string) string {
	return "loginip:" + ip
}
