package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rada-console/pkg/models"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// fakeSource serves a fixed roster and event batch. Calls block
// while gate is set and still open; failures are toggled per collection.
type fakeSource struct {
	mu          sync.Mutex
	gate        chan struct{}
	failCameras error
	failEvents  error
	calls       atomic.Int64
	lastLimit   atomic.Int64
}

func (f *fakeSource) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeSource) Cameras(ctx context.Context) ([]models.Camera, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCameras != nil {
		return nil, f.failCameras
	}
	return []models.Camera{{ID: "cam_1", Name: "Gate"}, {ID: "cam_2", Name: "Yard"}}, nil
}

func (f *fakeSource) Events(ctx context.Context, limit int) ([]models.Event, error) {
	f.lastLimit.Store(int64(limit))
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEvents != nil {
		return nil, f.failEvents
	}
	return []models.Event{
		{ID: "evt_1", CameraID: "cam_1", State: models.StateStart},
		{ID: "evt_2", CameraID: "cam_2", State: models.StateEnd},
	}, nil
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func TestFirstCycleRunsImmediately(t *testing.T) {
	src := &fakeSource{}
	s := New(src, WithInterval(time.Hour), WithEventLimit(50))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return s.Snapshot().Seq == 1 }, waitFor, tick)
	snap := s.Snapshot()
	assert.Len(t, snap.Cameras, 2)
	assert.Len(t, snap.Events, 2)
	assert.False(t, s.Loading())
	assert.True(t, s.Active())
	assert.EqualValues(t, 50, src.lastLimit.Load())
}

func TestTickerRepeatsCycles(t *testing.T) {
	src := &fakeSource{}
	s := New(src, WithInterval(10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return s.Stats().Applied >= 3 }, waitFor, tick)
	assert.GreaterOrEqual(t, s.Snapshot().Seq, uint64(3))
}

func TestStopBeforeFirstCycleResolvesKeepsSnapshot(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{gate: gate}
	s := New(src, WithInterval(time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return src.calls.Load() == 1 }, waitFor, tick)
	s.Stop()

	close(gate)
	s.Wait()

	assert.Equal(t, Snapshot{}, s.Snapshot())
	assert.False(t, s.Active())
	assert.EqualValues(t, 1, s.Stats().Discarded)
	assert.EqualValues(t, 0, s.Stats().Applied)
}

func TestLaunchAfterStopIsIgnored(t *testing.T) {
	src := &fakeSource{}
	s := New(src, WithInterval(time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return s.Snapshot().Seq == 1 }, waitFor, tick)
	before := s.Snapshot()
	calls := src.calls.Load()
	s.Stop()

	// a tick that fires under the old generation must not start a cycle
	s.launch(context.Background(), 1)
	s.Wait()

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, calls, src.calls.Load())
}

func TestFailureLeavesSnapshotAndRetries(t *testing.T) {
	src := &fakeSource{failEvents: errors.New("backend down")}
	s := New(src, WithInterval(10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return s.Stats().Failures >= 2 }, waitFor, tick)
	assert.False(t, s.Loading(), "loading clears after the first attempted cycle")
	assert.Equal(t, Snapshot{}, s.Snapshot(), "a failed cycle never applies cameras alone")
	assert.EqualError(t, s.Stats().LastError, "backend down")

	src.set(func(f *fakeSource) { f.failEvents = nil })
	assert.Eventually(t, func() bool { return s.Snapshot().Seq > 0 }, waitFor, tick)
	assert.True(t, s.Active(), "failures never stop the ticker")
}

func TestPartialFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{}
	s := New(src, WithInterval(10*time.Millisecond))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Eventually(t, func() bool { return s.Snapshot().Seq > 0 }, waitFor, tick)

	src.set(func(f *fakeSource) { f.failCameras = errors.New("cameras unavailable") })
	failuresBefore := s.Stats().Failures
	assert.Eventually(t, func() bool { return s.Stats().Failures > failuresBefore }, waitFor, tick)
	held := s.Snapshot()

	assert.Eventually(t, func() bool { return s.Stats().Failures > failuresBefore+2 }, waitFor, tick)
	assert.Equal(t, held.Seq, s.Snapshot().Seq)
	assert.Len(t, s.Snapshot().Events, 2)
}

func TestLoadingOnlyOnFirstCycleOfActivation(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{gate: gate}
	s := New(src, WithInterval(time.Hour))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Loading())
	close(gate)
	assert.Eventually(t, func() bool { return !s.Loading() }, waitFor, tick)
	s.Stop()
	s.Wait()

	gate2 := make(chan struct{})
	src.set(func(f *fakeSource) { f.gate = gate2 })
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Loading(), "a new activation shows loading again")
	assert.EqualValues(t, 1, s.Snapshot().Seq, "the previous snapshot stays readable")
	close(gate2)
	assert.Eventually(t, func() bool { return !s.Loading() && s.Snapshot().Seq == 2 }, waitFor, tick)
	s.Stop()
}

func TestStaleCycleIsDiscarded(t *testing.T) {
	src := &fakeSource{}
	s := New(src)
	s.mu.Lock()
	s.active = true
	s.generation = 1
	s.mu.Unlock()

	s.cycle(context.Background(), 1, 2)
	s.cycle(context.Background(), 1, 1)

	assert.EqualValues(t, 2, s.Snapshot().Seq)
	assert.EqualValues(t, 1, s.Stats().Discarded)
	assert.EqualValues(t, 1, s.Stats().Applied)
}

func TestStartTwice(t *testing.T) {
	s := New(&fakeSource{}, WithInterval(time.Hour))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyActive)
}

func TestStopWhenInactiveIsNoop(t *testing.T) {
	s := New(&fakeSource{})
	s.Stop()
	s.Wait()
	assert.False(t, s.Active())
}

func TestContextCancelDeactivates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(&fakeSource{}, WithInterval(time.Hour))

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.Active() }, waitFor, tick)
	s.Stop()
	s.Wait()
}

func TestOnUpdateReceivesSnapshot(t *testing.T) {
	updates := make(chan Snapshot, 4)
	s := New(&fakeSource{}, WithInterval(time.Hour), OnUpdate(func(snap Snapshot) {
		updates <- snap
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case snap := <-updates:
		assert.EqualValues(t, 1, snap.Seq)
		assert.Len(t, snap.Cameras, 2)
	case <-time.After(waitFor):
		t.Fatal("no update received")
	}
}
