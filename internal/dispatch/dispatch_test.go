package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(s string) string { return s }

func TestRunOneOutcomePerTarget(t *testing.T) {
	targets := []string{"eng1", "eng2", "eng3"}

	outcomes := Collect(Run(testContext(t), targets, identity, 0, func(ctx context.Context, target string) (string, error) {
		if target == "eng2" {
			return "", errors.New("login failed")
		}
		return "ok-" + target, nil
	}))

	require.Len(t, outcomes, 3)
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, targets[i], o.Target)
	}
	assert.Equal(t, "ok-eng1", outcomes[0].Value)
	assert.EqualError(t, outcomes[1].Err, "login failed")
	assert.Equal(t, "ok-eng3", outcomes[2].Value)
}

func TestRunEmpty(t *testing.T) {
	outcomes := Collect(Run(testContext(t), []string{}, identity, 0, func(ctx context.Context, target string) (int, error) {
		t.Fatal("work must not be called")
		return 0, nil
	}))
	assert.Empty(t, outcomes)
}

func TestRunRespectsParallelLimit(t *testing.T) {
	targets := []string{"a", "b", "c", "d", "e", "f"}
	var running, peak atomic.Int32

	outcomes := Collect(Run(testContext(t), targets, identity, 2, func(ctx context.Context, target string) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	}))

	assert.Len(t, outcomes, len(targets))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunCanceledWhileQueued(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	release := make(chan struct{})
	var started atomic.Int32

	ch := Run(ctx, []string{"a", "b"}, identity, 1, func(ctx context.Context, target string) (string, error) {
		started.Add(1)
		<-release
		return target, nil
	})

	// Let the first worker take the only slot, then cancel the queued one.
	require.Eventually(t, func() bool { return started.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	time.Sleep(5 * time.Millisecond)
	close(release)

	outcomes := Collect(ch)
	require.Len(t, outcomes, 2)

	var canceled int
	for _, o := range outcomes {
		if errors.Is(o.Err, context.Canceled) {
			canceled++
		}
	}
	assert.Equal(t, 1, canceled)
	assert.Equal(t, int32(1), started.Load())
}

// testContext returns a context canceled when the test finishes.
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
