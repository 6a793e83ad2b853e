package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sandevgo/chatlens/internal/service/metrics"
	"github.com/sandevgo/chatlens/pkg/log"
)

const (
	DefaultWindow   = 7 * 24 * time.Hour
	DefaultSchedule = "@daily"
)

type Purger interface {
	PurgeOlderThan(ctx context.Context, d time.Duration) int
}

// Sweeper drops messages older than the retention window on a cron
// schedule, independent of the per-conversation capacity trim.
type Sweeper struct {
	store    Purger
	window   time.Duration
	schedule cron.Schedule
	spec     string
	cron     *cron.Cron
	metrics  *metrics.Metrics
}

type Option func(*Sweeper)

func WithLocation(loc *time.Location) Option {
	return func(s *Sweeper) {
		if loc != nil {
			s.cron = cron.New(cron.WithLocation(loc))
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) { s.metrics = m }
}

// New validates spec (standard five-field cron or a descriptor such as @daily).
func New(store Purger, window time.Duration, spec string, opts ...Option) (*Sweeper, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if spec == "" {
		spec = DefaultSchedule
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}

	s := &Sweeper{
		store:    store,
		window:   window,
		schedule: schedule,
		spec:     spec,
		cron:     cron.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunOnce purges expired messages and returns how many were removed.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	n := s.store.PurgeOlderThan(ctx, s.window)
	s.metrics.Purge(n)

	log.FromCtx(ctx).Info().
		Int("removed", n).
		Dur("window", s.window).
		Dur("took", time.Since(start)).
		Msg("retention sweep complete")
	return n
}

// Start sweeps once, then on schedule until ctx is done.
func (s *Sweeper) Start(ctx context.Context) error {
	s.RunOnce(ctx)

	s.cron.Schedule(s.schedule, cron.FuncJob(func() {
		s.RunOnce(ctx)
	}))
	s.cron.Start()

	log.FromCtx(ctx).Info().Str("schedule", s.spec).Msg("retention sweeper started")
	<-ctx.Done()
	return nil
}

// Shutdown stops the schedule and waits for a running sweep.
func (s *Sweeper) Shutdown(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the schedule fires after t.
func (s *Sweeper) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}
