// Package poller keeps a snapshot of cameras and events fresh by loading both
// on a fixed interval while active.
//
// A Synchronizer is either inactive (no ticker, results ignored) or active.
// Every activation gets a new generation number; a cycle applies its result
// only if the generation it was launched under is still current, so a
// response that lands after Stop never touches the snapshot. Requests that
// are already in flight are not aborted by Stop.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rada-console/internal/logging"
	"rada-console/pkg/models"
)

const (
	DefaultInterval   = 2500 * time.Millisecond
	DefaultEventLimit = 200
)

// ErrAlreadyActive is returned by Start on an active Synchronizer.
var ErrAlreadyActive = errors.New("synchronizer already active")

// Source loads the two collections that make up a snapshot.
type Source interface {
	Cameras(ctx context.Context) ([]models.Camera, error)
	Events(ctx context.Context, limit int) ([]models.Event, error)
}

// Snapshot is the latest successfully loaded (cameras, events) pair. The
// slices are shared with other readers and must not be modified.
type Snapshot struct {
	Cameras  []models.Camera
	Events   []models.Event
	Seq      uint64 // cycle that produced it; 0 before the first load
	LoadedAt time.Time
}

// Stats counts what the synchronizer has done since construction.
type Stats struct {
	Cycles      uint64 // cycles completed while their activation was current
	Applied     uint64
	Failures    uint64
	Discarded   uint64 // results dropped as stale or after deactivation
	LastSuccess time.Time
	LastError   error
	LastErrorAt time.Time
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithEventLimit sets the limit passed to Source.Events.
func WithEventLimit(limit int) Option {
	return func(s *Synchronizer) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logging.OrNop(l)
	}
}

// OnUpdate registers a callback run after each snapshot replacement.
func OnUpdate(fn func(Snapshot)) Option {
	return func(s *Synchronizer) {
		s.onUpdate = fn
	}
}

type Synchronizer struct {
	source   Source
	interval time.Duration
	limit    int
	logger   *zap.Logger
	onUpdate func(Snapshot)

	mu         sync.Mutex
	active     bool
	generation uint64
	stop       chan struct{}
	nextSeq    uint64
	appliedSeq uint64
	loading    bool
	snapshot   Snapshot
	stats      Stats

	loop     sync.WaitGroup
	inflight sync.WaitGroup
}

func New(source Source, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		source:   source,
		interval: DefaultInterval,
		limit:    DefaultEventLimit,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start activates the synchronizer: a cycle runs immediately and then once
// per interval until Stop is called or ctx is done.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return ErrAlreadyActive
	}
	s.active = true
	s.generation++
	gen := s.generation
	s.loading = true
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	s.logger.Info("synchronizer started",
		zap.Duration("interval", s.interval),
		zap.Int("event_limit", s.limit))

	s.launch(ctx, gen)

	s.loop.Add(1)
	go s.run(ctx, gen, stop)
	return nil
}

// Stop deactivates the synchronizer. Results of cycles still in flight are
// discarded when they arrive.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.deactivateLocked()
	s.mu.Unlock()

	s.loop.Wait()
	s.logger.Info("synchronizer stopped")
}

// Wait blocks until every launched cycle has returned. Call it after Stop.
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}

// Snapshot returns the latest applied snapshot.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Loading reports whether the first cycle of the current activation is
// still pending.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Active reports whether the synchronizer is polling.
func (s *Synchronizer) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Stats returns a copy of the counters.
func (s *Synchronizer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Synchronizer) deactivateLocked() {
	s.active = false
	s.generation++
	close(s.stop)
	s.stop = nil
}

func (s *Synchronizer) run(ctx context.Context, gen uint64, stop <-chan struct{}) {
	defer s.loop.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.launch(ctx, gen)
		case <-stop:
			return
		case <-ctx.Done():
			s.mu.Lock()
			if s.generation == gen {
				s.deactivateLocked()
			}
			s.mu.Unlock()
			s.logger.Info("synchronizer context done", zap.Error(ctx.Err()))
			return
		}
	}
}

// launch starts one cycle unless the activation gen has ended. Ticks may
// overlap a slow cycle; sequence numbers keep an older result from
// replacing a newer one.
func (s *Synchronizer) launch(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.nextSeq++
	seq := s.nextSeq
	s.inflight.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.inflight.Done()
		s.cycle(ctx, gen, seq)
	}()
}

func (s *Synchronizer) cycle(ctx context.Context, gen, seq uint64) {
	log := s.logger.With(
		zap.String("cycle_id", uuid.NewString()),
		zap.Uint64("seq", seq))
	started := time.Now()

	var (
		cameras []models.Camera
		events  []models.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cameras, err = s.source.Cameras(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.source.Events(gctx, s.limit)
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	if gen != s.generation {
		s.stats.Discarded++
		s.mu.Unlock()
		log.Debug("discarding result of inactive synchronizer")
		return
	}

	s.stats.Cycles++
	s.loading = false

	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err
		s.stats.LastErrorAt = time.Now()
		s.mu.Unlock()
		log.Warn("poll cycle failed, retrying on next tick", zap.Error(err))
		return
	}

	if applied := s.appliedSeq; seq < applied {
		s.stats.Discarded++
		s.mu.Unlock()
		log.Debug("discarding stale cycle", zap.Uint64("applied_seq", applied))
		return
	}

	snap := Snapshot{
		Cameras:  cameras,
		Events:   events,
		Seq:      seq,
		LoadedAt: time.Now(),
	}
	s.appliedSeq = seq
	s.snapshot = snap
	s.stats.Applied++
	s.stats.LastSuccess = snap.LoadedAt
	onUpdate := s.onUpdate
	s.mu.Unlock()

	log.Debug("snapshot replaced",
		zap.Int("cameras", len(cameras)),
		zap.Int("events", len(events)),
		zap.Duration("took", time.Since(started)))

	if onUpdate != nil {
		onUpdate(snap)
	}
}
