// Package collector keeps the dashboard's weather snapshot for the selected
// coordinate up to date.
package collector

import (
	"context"
	"sync"
	"time"

	"weatherlux/datasource"
	"weatherlux/logger"
	"weatherlux/models"
)

// Fetcher is the set of weather operations a batch needs. *datasource.Client
// satisfies it.
type Fetcher interface {
	CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error)
	Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error)
	AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error)
	Alerts(ctx context.Context, coord models.Coordinate) (models.Alerts, error)
	UVIndex(ctx context.Context, coord models.Coordinate) (models.UVIndex, error)
	MoonPhase(ctx context.Context) (models.MoonPhase, error)
}

// State is what the presentation layer observes
type State struct {
	Coordinate *models.Coordinate
	Snapshot   *models.Snapshot
	Loading    bool
	Err        error
}

// Collector runs fetch batches and commits their snapshots. Only the most
// recently issued batch may commit; results of older batches are dropped.
type Collector struct {
	fetcher Fetcher
	now     func() time.Time

	mu         sync.Mutex
	notifyMu   sync.Mutex
	state      State
	generation uint64
	listeners  []func(State)
}

// New creates a collector with no coordinate selected
func New(fetcher Fetcher) *Collector {
	return &Collector{fetcher: fetcher, now: time.Now}
}

// State returns a copy of the current state
func (c *Collector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyState()
}

func (c *Collector) copyState() State {
	s := c.state
	if s.Coordinate != nil {
		coord := *s.Coordinate
		s.Coordinate = &coord
	}
	return s
}

// OnChange registers fn to be called after every state change. Calls are
// serialized and each one receives the state current at delivery, so a
// listener never sees an older state after a newer one. fn must not call
// SetCoordinate, ClearCoordinate or Refetch synchronously.
func (c *Collector) OnChange(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Collector) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	s := c.copyState()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
}

// SetCoordinate selects coord, clears the previous snapshot and fetches a
// new one. It blocks until the batch resolves.
func (c *Collector) SetCoordinate(ctx context.Context, coord models.Coordinate) error {
	if err := coord.Validate(); err != nil {
		err = datasource.NewInvalidInput("collect", err)
		c.mu.Lock()
		c.generation++
		c.state = State{Err: err}
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = State{Coordinate: &coord, Loading: true}
	c.mu.Unlock()
	c.notify()

	return c.run(ctx, gen, coord)
}

// ClearCoordinate returns to the empty state. In-flight batches become stale.
func (c *Collector) ClearCoordinate() {
	c.mu.Lock()
	c.generation++
	c.state = State{}
	c.mu.Unlock()
	c.notify()
}

// Refetch re-issues the batch for the current coordinate, keeping the
// previous snapshot visible while it runs. Without a coordinate it does nothing.
func (c *Collector) Refetch(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Coordinate == nil {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	coord := *c.state.Coordinate
	c.state.Loading = true
	c.mu.Unlock()
	c.notify()

	return c.run(ctx, gen, coord)
}

// Watch refetches every interval until ctx is done or the returned function
// is called. A non-positive interval disables refreshing.
func (c *Collector) Watch(ctx context.Context, interval time.Duration) func() {
	if interval <= 0 {
		logger.Warnf("refresh disabled: non-positive interval %s", interval)
		return func() {}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := c.Refetch(watchCtx); err != nil {
					logger.Warnf("scheduled refresh failed: %v", err)
				}
			case <-watchCtx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// run fetches all six facets concurrently and commits them as one snapshot
func (c *Collector) run(ctx context.Context, gen uint64, coord models.Coordinate) error {
	var (
		wg   sync.WaitGroup
		snap = models.Snapshot{Coordinate: coord}
		errs = make([]error, 6)
	)

	wg.Add(6)
	go func() {
		defer wg.Done()
		snap.Current, errs[0] = c.fetcher.CurrentConditions(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		snap.Forecast, errs[1] = c.fetcher.Forecast(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		snap.AirQuality, errs[2] = c.fetcher.AirQuality(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		snap.Alerts, errs[3] = c.fetcher.Alerts(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		snap.UV, errs[4] = c.fetcher.UVIndex(ctx, coord)
	}()
	go func() {
		defer wg.Done()
		snap.Moon, errs[5] = c.fetcher.MoonPhase(ctx)
	}()
	wg.Wait()

	var batchErr error
	for _, err := range errs {
		if err != nil {
			batchErr = err
			break
		}
	}
	snap.FetchedAt = c.now()

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		logger.Debugf("discarding stale batch %d for %s", gen, coord)
		return nil
	}
	c.state.Loading = false
	c.state.Err = batchErr
	if batchErr == nil {
		c.state.Snapshot = &snap
	}
	c.mu.Unlock()
	c.notify()

	if batchErr != nil {
		logger.Errorf("weather batch for %s failed: %v", coord, batchErr)
	}
	return batchErr
}

var _ Fetcher = (*datasource.Client)(nil)
