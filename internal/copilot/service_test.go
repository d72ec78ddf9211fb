package copilot

import (
	"context"
	"testing"
	"time"
)

func TestNewService_Defaults(t *testing.T) {
	s := NewService("", 0)
	if s.model != "gpt-5-mini" {
		t.Errorf("model = %q, want gpt-5-mini", s.model)
	}
	if s.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", s.timeout)
	}
}

func TestCallWait(t *testing.T) {
	t.Run("no deadline uses fallback", func(t *testing.T) {
		wait, err := callWait(context.Background(), 30*time.Second)
		if err != nil {
			t.Fatalf("callWait: %v", err)
		}
		if wait != 30*time.Second {
			t.Errorf("wait = %v, want the 30s fallback", wait)
		}
	})

	t.Run("tighter deadline wins", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		wait, err := callWait(ctx, 30*time.Second)
		if err != nil {
			t.Fatalf("callWait: %v", err)
		}
		if wait <= 0 || wait > time.Second {
			t.Errorf("wait = %v, want within (0, 1s]", wait)
		}
	})

	t.Run("looser deadline keeps fallback", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		wait, err := callWait(ctx, 30*time.Second)
		if err != nil {
			t.Fatalf("callWait: %v", err)
		}
		if wait != 30*time.Second {
			t.Errorf("wait = %v, want the 30s fallback", wait)
		}
	})

	t.Run("expired deadline errors", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ctx, cancel2 := context.WithDeadline(ctx, time.Now().Add(-time.Second))
		defer cancel2()

		if _, err := callWait(ctx, 30*time.Second); err == nil {
			t.Error("callWait should error on an expired deadline")
		}
	})
}
