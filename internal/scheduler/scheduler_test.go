package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_StartupOnlyWithoutInterval(t *testing.T) {
	var calls atomic.Int32
	Run(context.Background(), Config{RunOnStartup: true}, func(context.Context) { calls.Add(1) })
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan struct{})
	go func() {
		Run(ctx, Config{Interval: 5 * time.Millisecond}, func(context.Context) { calls.Add(1) })
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
