package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlux/datasource"
	"weatherlux/models"
)

type countingSource struct {
	calls atomic.Int32
	fail  bool
}

func (s *countingSource) Name() string { return "Counting" }

func (s *countingSource) result() error {
	s.calls.Add(1)
	if s.fail {
		return errors.New("upstream down")
	}
	return nil
}

func (s *countingSource) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	return models.CurrentConditions{Name: "London", Temperature: 18}, s.result()
}

func (s *countingSource) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	return models.Forecast{Entries: []models.ForecastEntry{{Temperature: 1}, {Temperature: 2}}}, s.result()
}

func (s *countingSource) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	return models.AirQualityReading{AQI: 2}, s.result()
}

func (s *countingSource) Alerts(ctx context.Context, coord models.Coordinate) ([]models.WeatherAlert, error) {
	return []models.WeatherAlert{{ID: "a"}}, s.result()
}

func (s *countingSource) UVIndex(ctx context.Context, coord models.Coordinate) (float64, error) {
	return 4, s.result()
}

func (s *countingSource) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	return []models.City{{Name: "London"}}, s.result()
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

var london = models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

func TestWrapCachesUntilExpiry(t *testing.T) {
	src := &countingSource{}
	clk := &clock{t: time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)}
	sources := Wrap(datasource.SourcesOf(src), 5*time.Minute, WithClock(clk.now))
	ctx := context.Background()

	cur := sources.Current[0]
	assert.Equal(t, "Counting [Cached]", cur.Name())

	for i := 0; i < 3; i++ {
		got, err := cur.CurrentConditions(ctx, london)
		require.NoError(t, err)
		assert.Equal(t, "London", got.Name)
	}
	assert.EqualValues(t, 1, src.calls.Load())

	// a nearby point shares the rounded key
	_, err := cur.CurrentConditions(ctx, models.Coordinate{Latitude: 51.5071, Longitude: -0.1281})
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())

	clk.t = clk.t.Add(5 * time.Minute)
	_, err = cur.CurrentConditions(ctx, london)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	hits, misses := Stats(sources)
	assert.Equal(t, 3, hits)
	assert.Equal(t, 2, misses)
}

func TestWrapDoesNotCacheErrors(t *testing.T) {
	src := &countingSource{fail: true}
	sources := Wrap(datasource.SourcesOf(src), time.Minute)

	_, err := sources.UV[0].UVIndex(context.Background(), london)
	require.Error(t, err)
	_, err = sources.UV[0].UVIndex(context.Background(), london)
	require.Error(t, err)
	assert.EqualValues(t, 2, src.calls.Load())

	src.fail = false
	v, err := sources.UV[0].UVIndex(context.Background(), london)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestCachedForecastReturnsCopies(t *testing.T) {
	src := &countingSource{}
	fc := NewCachedForecastSource(src, time.Minute, nil)

	first, err := fc.Forecast(context.Background(), london)
	require.NoError(t, err)
	first.Entries[0].Temperature = 99

	second, err := fc.Forecast(context.Background(), london)
	require.NoError(t, err)
	assert.Equal(t, 1.0, second.Entries[0].Temperature)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestSearchKeyIgnoresCaseAndSpace(t *testing.T) {
	src := &countingSource{}
	sources := Wrap(datasource.SourcesOf(src), time.Minute)

	_, err := sources.Search[0].SearchCities(context.Background(), "London", 5)
	require.NoError(t, err)
	_, err = sources.Search[0].SearchCities(context.Background(), "  london ", 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestWrapZeroTTL(t *testing.T) {
	src := &countingSource{}
	sources := Wrap(datasource.SourcesOf(src), 0)
	assert.Equal(t, "Counting", sources.Current[0].Name())
}
