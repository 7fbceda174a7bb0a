//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/devicehub/devicehub/internal/testutil"
)

func TestCheckLoginRateLimit_Integration(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer c.Close()

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	for i := 0; i < 3; i++ {
		res, err := c.CheckLoginRateLimit(ctx, "kevin", 1, 3)
		if err != nil {
			t.Fatalf("CheckLoginRateLimit: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	res, err := c.CheckLoginRateLimit(ctx, "kevin", 1, 3)
	if err != nil {
		t.Fatalf("CheckLoginRateLimit: %v", err)
	}
	if res.Allowed {
		t.Error("fourth attempt should be throttled")
	}
	if res.RetryAfter < time.Second {
		t.Errorf("RetryAfter = %v, want at least 1s", res.RetryAfter)
	}

	other, err := c.CheckLoginRateLimit(ctx, "alice", 1, 3)
	if err != nil {
		t.Fatalf("CheckLoginRateLimit: %v", err)
	}
	if !other.Allowed {
		t.Error("other logins must have their own bucket")
	}
}

func TestCheckIPRateLimit_Integration(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testutil.RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer c.Close()

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}

	res, err := c.CheckIPRateLimit(ctx, "10.0.0.1", 1, 1)
	if err != nil || !res.Allowed {
		t.Fatalf("first request should pass: %+v, %v", res, err)
	}
	res, err = c.CheckIPRateLimit(ctx, "10.0.0.1", 1, 1)
	if err != nil {
		t.Fatalf("CheckIPRateLimit: %v", err)
	}
	if res.Allowed {
		t.Error("second request within a second should be throttled")
	}
}
