package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles login attempts using Redis. Failed attempts within the
// window accumulate per (ip, login) pair; exceeding the limit locks the pair
// out for the lockout duration.
type Limiter struct {
	client          *redis.Client
	window          time.Duration
	maxAttempts     int
	lockoutDuration time.Duration
}

// NewLimiter creates a new rate limiter
func NewLimiter(client *redis.Client, window time.Duration, maxAttempts int, lockoutDuration time.Duration) *Limiter {
	return &Limiter{
		client:          client,
		window:          window,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
	}
}

func (l *Limiter) attemptKey(login, ipAddress string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ipAddress, login)
}

func (l *Limiter) lockoutKey(login, ipAddress string) string {
	return fmt.Sprintf("ratelimit:lockout:%s:%s", ipAddress, login)
}

// CheckLoginAttempt reports whether a login attempt is allowed and, when
// locked out, how long the lockout still lasts.
func (l *Limiter) CheckLoginAttempt(ctx context.Context, login, ipAddress string) (bool, time.Duration, error) {
	lockoutKey := l.lockoutKey(login, ipAddress)

	ttl, err := l.client.TTL(ctx, lockoutKey).Result()
	if err != nil && err != redis.Nil {
		return false, 0, fmt.Errorf("failed to check lockout status: %w", err)
	}

	if ttl > 0 {
		return false, ttl, nil
	}

	attemptKey := l.attemptKey(login, ipAddress)
	count, err := l.client.Get(ctx, attemptKey).Int()
	if err != nil && err != redis.Nil {
		return false, 0, fmt.Errorf("failed to get attempt count: %w", err)
	}

	if count >= l.maxAttempts {
		// Exceeded the limit: start the lockout and reset the counter
		if err := l.client.Set(ctx, lockoutKey, "1", l.lockoutDuration).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set lockout: %w", err)
		}
		_ = l.client.Del(ctx, attemptKey).Err()
		return false, l.lockoutDuration, nil
	}

	return true, 0, nil
}

// RecordFailedAttempt records a failed login attempt
func (l *Limiter) RecordFailedAttempt(ctx context.Context, login, ipAddress string) error {
	attemptKey := l.attemptKey(login, ipAddress)

	count, err := l.client.Incr(ctx, attemptKey).Result()
	if err != nil {
		return fmt.Errorf("failed to increment attempt counter: %w", err)
	}

	// The window starts at the first failure
	if count == 1 {
		if err := l.client.Expire(ctx, attemptKey, l.window).Err(); err != nil {
			return fmt.Errorf("failed to set expiry: %w", err)
		}
	}

	return nil
}

// RecordSuccessfulAttempt clears the attempt counter after a successful login
func (l *Limiter) RecordSuccessfulAttempt(ctx context.Context, login, ipAddress string) error {
	if err := l.client.Del(ctx, l.attemptKey(login, ipAddress)).Err(); err != nil {
		return fmt.Errorf("failed to clear attempt counter: %w", err)
	}
	return nil
}
