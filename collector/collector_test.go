package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlux/datasource"
	"weatherlux/models"
)

var (
	london = models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	tokyo  = models.Coordinate{Latitude: 35.6762, Longitude: 139.6503}
)

// fakeFetcher names every record after the coordinate it was asked for.
// Requests for blockOn wait until release is closed.
type fakeFetcher struct {
	blockOn *models.Coordinate
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
	once    sync.Once
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{started: make(chan struct{}), release: make(chan struct{})}
}

func (f *fakeFetcher) gate(coord models.Coordinate) {
	f.calls.Add(1)
	if f.blockOn != nil && *f.blockOn == coord {
		f.once.Do(func() { close(f.started) })
		<-f.release
	}
}

func (f *fakeFetcher) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	f.gate(coord)
	return models.CurrentConditions{Name: coord.Key(), Coordinate: coord, Source: models.SourceLive}, nil
}

func (f *fakeFetcher) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	f.gate(coord)
	return models.Forecast{Provider: coord.Key(), Source: models.SourceLive}, nil
}

func (f *fakeFetcher) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	f.gate(coord)
	return models.AirQualityReading{AQI: 2, Provider: coord.Key(), Source: models.SourceLive}, nil
}

func (f *fakeFetcher) Alerts(ctx context.Context, coord models.Coordinate) (models.Alerts, error) {
	f.gate(coord)
	return models.Alerts{Items: []models.WeatherAlert{}, Provider: coord.Key(), Source: models.SourceLive}, nil
}

func (f *fakeFetcher) UVIndex(ctx context.Context, coord models.Coordinate) (models.UVIndex, error) {
	f.gate(coord)
	return models.UVIndex{Value: 3, Provider: coord.Key(), Source: models.SourceLive}, nil
}

func (f *fakeFetcher) MoonPhase(ctx context.Context) (models.MoonPhase, error) {
	return models.MoonPhase{Name: "Full Moon", Source: models.SourceComputed}, nil
}

func TestNoCoordinateNoFetch(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)

	state := c.State()
	assert.Nil(t, state.Coordinate)
	assert.Nil(t, state.Snapshot)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)

	require.NoError(t, c.Refetch(context.Background()))
	assert.EqualValues(t, 0, f.calls.Load())
	assert.Nil(t, c.State().Snapshot)
}

func TestSetCoordinateCommitsSnapshot(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)

	var states []State
	c.OnChange(func(s State) { states = append(states, s) })

	require.NoError(t, c.SetCoordinate(context.Background(), london))

	state := c.State()
	require.NotNil(t, state.Snapshot)
	assert.False(t, state.Loading)
	assert.Equal(t, london, *state.Coordinate)
	assert.Equal(t, london.Key(), state.Snapshot.Current.Name)
	assert.Equal(t, london.Key(), state.Snapshot.UV.Provider)
	assert.Equal(t, "Full Moon", state.Snapshot.Moon.Name)
	assert.False(t, state.Snapshot.Degraded())
	assert.EqualValues(t, 5, f.calls.Load())

	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.Nil(t, states[0].Snapshot)
	assert.False(t, states[1].Loading)
	assert.NotNil(t, states[1].Snapshot)
}

func TestSetCoordinateClearsPreviousSnapshot(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)
	require.NoError(t, c.SetCoordinate(context.Background(), london))

	var first State
	c.OnChange(func(s State) {
		if first.Coordinate == nil {
			first = s
		}
	})
	require.NoError(t, c.SetCoordinate(context.Background(), tokyo))

	assert.True(t, first.Loading)
	assert.Nil(t, first.Snapshot)
	assert.Equal(t, tokyo.Key(), c.State().Snapshot.Current.Name)
}

func TestInvalidCoordinate(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)

	err := c.SetCoordinate(context.Background(), models.Coordinate{Latitude: 91})
	require.Error(t, err)
	assert.True(t, datasource.IsInvalidInput(err))
	assert.ErrorIs(t, c.State().Err, models.ErrInvalidCoordinate)
	assert.EqualValues(t, 0, f.calls.Load())
}

func TestStaleBatchNeverCommits(t *testing.T) {
	f := newFakeFetcher()
	f.blockOn = &london
	c := New(f)

	done := make(chan error, 1)
	go func() { done <- c.SetCoordinate(context.Background(), london) }()

	select {
	case <-f.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first batch never started")
	}

	require.NoError(t, c.SetCoordinate(context.Background(), tokyo))
	assert.Equal(t, tokyo.Key(), c.State().Snapshot.Current.Name)

	close(f.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first batch never returned")
	}

	state := c.State()
	assert.Equal(t, tokyo, *state.Coordinate)
	assert.Equal(t, tokyo.Key(), state.Snapshot.Current.Name)
	assert.Equal(t, tokyo.Key(), state.Snapshot.Forecast.Provider)
	assert.False(t, state.Loading)
}

func TestRefetchKeepsSnapshotWhileLoading(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)
	require.NoError(t, c.SetCoordinate(context.Background(), london))
	before := c.State().Snapshot

	var loading State
	c.OnChange(func(s State) {
		if s.Loading {
			loading = s
		}
	})
	require.NoError(t, c.Refetch(context.Background()))

	assert.Same(t, before, loading.Snapshot)
	after := c.State()
	assert.False(t, after.Loading)
	assert.NotSame(t, before, after.Snapshot)
	assert.EqualValues(t, 10, f.calls.Load())
}

func TestClearCoordinateDropsInFlightBatch(t *testing.T) {
	f := newFakeFetcher()
	f.blockOn = &london
	c := New(f)

	done := make(chan error, 1)
	go func() { done <- c.SetCoordinate(context.Background(), london) }()
	<-f.started

	c.ClearCoordinate()
	close(f.release)
	require.NoError(t, <-done)

	state := c.State()
	assert.Nil(t, state.Coordinate)
	assert.Nil(t, state.Snapshot)
	assert.False(t, state.Loading)
}

func TestWatchRefetches(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)
	require.NoError(t, c.SetCoordinate(context.Background(), london))

	stop := c.Watch(context.Background(), 10*time.Millisecond)
	assert.Eventually(t, func() bool { return f.calls.Load() >= 10 }, 2*time.Second, 5*time.Millisecond)
	stop()
}

func TestNotificationsEndOnFinalState(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)
	require.NoError(t, c.SetCoordinate(context.Background(), london))

	var (
		mu   sync.Mutex
		last State
	)
	c.OnChange(func(s State) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Refetch(context.Background()))
		}()
	}
	wg.Wait()

	final := c.State()
	require.False(t, final.Loading)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, last.Loading, "a loading notification arrived after the last commit")
	assert.Same(t, final.Snapshot, last.Snapshot)
}

func TestWatchNonPositiveInterval(t *testing.T) {
	f := newFakeFetcher()
	c := New(f)
	require.NoError(t, c.SetCoordinate(context.Background(), london))

	for _, interval := range []time.Duration{0, -time.Second} {
		stop := c.Watch(context.Background(), interval)
		require.NotNil(t, stop)
		stop()
	}
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 5, f.calls.Load())
}

func TestDegradedSnapshotFromFallbackClient(t *testing.T) {
	client := datasource.NewClient(datasource.Sources{})
	c := New(client)

	require.NoError(t, c.SetCoordinate(context.Background(), london))
	snap := c.State().Snapshot
	require.NotNil(t, snap)
	assert.True(t, snap.Degraded())
	assert.Equal(t, models.SourceFallback, snap.Current.Source)
	assert.Equal(t, models.SourceComputed, snap.Moon.Source)
}
