package radius_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deal-proximity/internal/domain"
	"github.com/deal-proximity/internal/radius"
)

func startLoop(t *testing.T, interval time.Duration) *radius.FrameLoop {
	t.Helper()
	loop := radius.NewFrameLoop(zap.NewNop(), interval)
	loop.Start(context.Background())
	t.Cleanup(loop.Stop)
	return loop
}

func TestFrameLoop_RunsPostedTasksInOrder(t *testing.T) {
	loop := startLoop(t, time.Millisecond)

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		require.True(t, loop.Post(func() { got <- i }))
	}

	assert.Equal(t, 1, <-got)
	assert.Equal(t, 2, <-got)
	assert.Equal(t, 3, <-got)
}

func TestFrameLoop_RequestFrameRunsOnTick(t *testing.T) {
	loop := startLoop(t, 5*time.Millisecond)

	ran := make(chan struct{})
	require.True(t, loop.Post(func() {
		loop.RequestFrame(func() { close(ran) })
	}))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not run")
	}
}

func TestFrameLoop_CancelFrame(t *testing.T) {
	loop := startLoop(t, 5*time.Millisecond)

	var cancelledRan atomic.Bool
	ran := make(chan struct{})
	require.True(t, loop.Post(func() {
		id := loop.RequestFrame(func() { cancelledRan.Store(true) })
		loop.RequestFrame(func() { close(ran) })
		loop.CancelFrame(id)
		loop.CancelFrame(radius.FrameID(999))
	}))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("frame callback did not run")
	}
	assert.False(t, cancelledRan.Load())
}

func TestFrameLoop_StopDrainsTasksAndDiscardsFrames(t *testing.T) {
	loop := radius.NewFrameLoop(zap.NewNop(), time.Hour)
	loop.Start(context.Background())

	var frameRan atomic.Bool
	var closed atomic.Bool
	require.True(t, loop.Post(func() {
		loop.RequestFrame(func() { frameRan.Store(true) })
	}))
	require.True(t, loop.Post(func() { closed.Store(true) }))

	loop.Stop()

	assert.True(t, closed.Load())
	assert.False(t, frameRan.Load())
	assert.False(t, loop.Post(func() {}))

	loop.Stop()
}

func TestFrameLoop_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := radius.NewFrameLoop(zap.NewNop(), 0)
	loop.Start(ctx)

	cancel()

	assert.Eventually(t, func() bool {
		return !loop.Post(func() {})
	}, time.Second, 5*time.Millisecond)
	loop.Stop()
}

func TestFrameLoop_ContextCancelRunsQueuedTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := radius.NewFrameLoop(zap.NewNop(), time.Hour)
	loop.Start(ctx)

	release := make(chan struct{})
	var frameRan atomic.Bool
	var teardown atomic.Bool
	require.True(t, loop.Post(func() {
		loop.RequestFrame(func() { frameRan.Store(true) })
		<-release
	}))
	// queued behind the blocked task when the context is cancelled
	require.True(t, loop.Post(func() { teardown.Store(true) }))

	cancel()
	close(release)

	assert.Eventually(t, func() bool {
		return !loop.Post(func() {})
	}, time.Second, 5*time.Millisecond)
	loop.Stop()

	assert.True(t, teardown.Load())
	assert.False(t, frameRan.Load())
}

func TestFrameLoop_DrivesController(t *testing.T) {
	loop := startLoop(t, 2*time.Millisecond)
	surface := &recordingSurface{}
	center := chicago

	var c *radius.Controller
	published := make(chan int, 16)

	require.True(t, loop.Post(func() {
		var err error
		c, err = radius.NewController(&center, 10, surface, loop, zap.NewNop())
		if !assert.NoError(t, err) {
			return
		}
		c.OnChange(func(s domain.RadiusState) {
			published <- s.RadiusMiles
		})
		c.PointerDown(northOf(chicago, 10))
		for i := 0; i < 50; i++ {
			c.PointerMove(northOf(chicago, 18))
		}
	}))

	// pointer-down notification, then the throttled publish
	assert.Equal(t, 10, <-published)
	select {
	case r := <-published:
		assert.Equal(t, 18, r)
	case <-time.After(time.Second):
		t.Fatal("radius was not published")
	}

	done := make(chan struct{})
	require.True(t, loop.Post(func() {
		c.Close()
		close(done)
	}))
	<-done
}
