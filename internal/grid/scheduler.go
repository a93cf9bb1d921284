package grid

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tOgg1/taskdeck/internal/logging"
	"github.com/tOgg1/taskdeck/internal/models"
)

// Default refresh intervals.
const (
	DefaultPrimaryInterval   = 10 * time.Second
	DefaultSecondaryInterval = 5 * time.Second
)

// Fetcher loads the rows of a dataset matching a filter.
type Fetcher interface {
	Fetch(ctx context.Context, kind models.Kind, filter string) ([]models.Record, error)
}

// SchedulerConfig holds the per-dataset refresh intervals.
type SchedulerConfig struct {
	PrimaryInterval   time.Duration
	SecondaryInterval time.Duration
}

func (c SchedulerConfig) interval(kind models.Kind) time.Duration {
	var d time.Duration
	switch kind {
	case models.KindPrimary:
		d = c.PrimaryInterval
		if d <= 0 {
			d = DefaultPrimaryInterval
		}
	default:
		d = c.SecondaryInterval
		if d <= 0 {
			d = DefaultSecondaryInterval
		}
	}
	return d
}

// Scheduler runs one polling loop per dataset. Each successful fetch is
// published to the cache and then handed to the foreground through a
// single-slot channel.
type Scheduler struct {
	fetcher Fetcher
	cache   *Cache
	cfg     SchedulerConfig
	updates map[models.Kind]chan Snapshot
	logger  zerolog.Logger
	now     func() time.Time
}

// NewScheduler creates a scheduler. Call Run to start the loops.
func NewScheduler(fetcher Fetcher, cache *Cache, cfg SchedulerConfig) *Scheduler {
	updates := make(map[models.Kind]chan Snapshot, len(models.Kinds))
	for _, kind := range models.Kinds {
		updates[kind] = make(chan Snapshot, 1)
	}
	return &Scheduler{
		fetcher: fetcher,
		cache:   cache,
		cfg:     cfg,
		updates: updates,
		logger:  logging.Component("scheduler"),
		now:     time.Now,
	}
}

// Updates returns the channel receiving refreshed snapshots of kind.
func (s *Scheduler) Updates(kind models.Kind) <-chan Snapshot {
	return s.updates[kind]
}

// Run starts both loops and blocks until ctx is cancelled and both have stopped.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range models.Kinds {
		g.Go(func() error {
			return s.loop(ctx, kind)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Scheduler) loop(ctx context.Context, kind models.Kind) error {
	interval := s.cfg.interval(kind)
	logger := s.logger.With().Str("kind", kind.String()).Dur("interval", interval).Logger()
	logger.Debug().Msg("refresh loop started")
	defer logger.Debug().Msg("refresh loop stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.refresh(ctx, kind, logger); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// refresh runs one fetch. Fetch failures are logged and swallowed; only
// cancellation ends the loop.
func (s *Scheduler) refresh(ctx context.Context, kind models.Kind, logger zerolog.Logger) error {
	filter := s.cache.Filter()
	rows, err := s.fetcher.Fetch(ctx, kind, filter)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error().Err(err).Str("filter", filter).Msg("fetch failed")
		return nil
	}

	snap := s.cache.Publish(Snapshot{
		Kind:      kind,
		Filter:    filter,
		Rows:      rows,
		FetchedAt: s.now(),
	})
	logger.Debug().Int("rows", snap.Len()).Str("filter", filter).Msg("refreshed")

	select {
	case s.updates[kind] <- snap:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
