package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeEvaler struct {
	count int64
	err   error
	keys  []string
}

func (f *fakeEvaler) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	f.keys = append(f.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.count++
	cmd.SetVal(f.count)
	return cmd
}

func TestRedisAttemptLimiterCountsAgainstMax(t *testing.T) {
	evaler := &fakeEvaler{}
	limiter := &redisAttemptLimiter{
		client: evaler,
		window: time.Minute,
		max:    2,
		prefix: "auth:rl:",
	}

	if !limiter.Allow("verify:a@b.com") {
		t.Fatalf("expected first attempt allowed")
	}
	if !limiter.Allow("verify:a@b.com") {
		t.Fatalf("expected second attempt allowed")
	}
	if limiter.Allow("verify:a@b.com") {
		t.Fatalf("expected third attempt blocked")
	}
	if len(evaler.keys) == 0 || evaler.keys[0] != "auth:rl:verify:a@b.com" {
		t.Fatalf("expected prefixed key, got %v", evaler.keys)
	}
}

func TestRedisAttemptLimiterFailsOpen(t *testing.T) {
	limiter := &redisAttemptLimiter{
		client: &fakeEvaler{err: errors.New("redis down")},
		window: time.Minute,
		max:    1,
		prefix: "auth:rl:",
	}
	if !limiter.Allow("verify:a@b.com") {
		t.Fatalf("expected fail-open when redis errors")
	}
}

func TestRedisAttemptLimiterRejectsEmptyKey(t *testing.T) {
	limiter := &redisAttemptLimiter{
		client: &fakeEvaler{},
		window: time.Minute,
		max:    1,
		prefix: "auth:rl:",
	}
	if limiter.Allow("") {
		t.Fatalf("expected empty key rejected")
	}
}
