package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"go.uber.org/zap"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})
	got := timeouts.Current()
	if got.Short != 7*time.Second {
		t.Errorf("Short = %v", got.Short)
	}
	if got.Medium != timeouts.DefaultMedium || got.Ping != timeouts.DefaultPing {
		t.Errorf("zero values overwrote defaults: %+v", got)
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	ctx, cancel := timeouts.WithTimeout(context.Background(), 10*time.Millisecond, zap.NewNop(), "test")
	defer cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
	if ctx.Err() != context.DeadlineExceeded {
		t.Errorf("err = %v", ctx.Err())
	}
}
