package datasource

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"weatherlux/logger"
	"weatherlux/models"
)

const (
	// DefaultRequestTimeout bounds every single provider request
	DefaultRequestTimeout = 10 * time.Second
	// MaxForecastEntries caps the forecast window
	MaxForecastEntries = 72
	minQueryLength     = 2
)

// Client fetches weather facets from ordered provider tiers and falls back
// to synthetic data when every tier fails. Apart from invalid input, its
// operations always return data.
type Client struct {
	sources   Sources
	fallback  *Fallback
	gazetteer *Gazetteer
	timeout   time.Duration
	now       func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFallback sets the synthetic data generator
func WithFallback(f *Fallback) Option {
	return func(c *Client) { c.fallback = f }
}

// WithGazetteer sets the built-in city list used for offline search
func WithGazetteer(g *Gazetteer) Option {
	return func(c *Client) { c.gazetteer = g }
}

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client over sources
func NewClient(sources Sources, opts ...Option) *Client {
	c := &Client{
		sources:   sources,
		gazetteer: NewGazetteer(),
		timeout:   DefaultRequestTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fallback == nil {
		def := DefaultConfig().DefaultLocation
		c.fallback = NewFallback(models.City{Name: def.Name, Country: def.Country, Coordinate: def.Coordinate()}, 1)
	}
	return c
}

// tryEach calls fetch on each source in order, each under its own timeout,
// and returns the first success. Failures are logged.
func tryEach[S interface{ Name() string }, T any](ctx context.Context, timeout time.Duration, op string, sources []S, fetch func(context.Context, S) (T, error)) (T, string, bool) {
	var zero T
	for _, src := range sources {
		if ctx.Err() != nil {
			logger.Warnf("%s: giving up before %s: %v", op, src.Name(), ctx.Err())
			break
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		v, err := fetch(reqCtx, src)
		cancel()

		if err == nil {
			logger.Debugf("%s served by %s", op, src.Name())
			return v, src.Name(), true
		}
		if errors.Is(err, context.DeadlineExceeded) && KindOf(err) == 0 {
			err = NewNetworkError(src.Name(), op, err)
		}
		logger.Warnf("%s from %s failed: %v", op, src.Name(), err)
	}
	return zero, "", false
}

func validate(op string, coord models.Coordinate) error {
	if err := coord.Validate(); err != nil {
		return NewInvalidInput(op, err)
	}
	return nil
}

// CurrentConditions returns the current conditions at coord
func (c *Client) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	if err := validate("current conditions", coord); err != nil {
		return models.CurrentConditions{}, err
	}

	now := c.now()
	cur, provider, ok := tryEach(ctx, c.timeout, "current conditions", c.sources.Current,
		func(ctx context.Context, s CurrentSource) (models.CurrentConditions, error) {
			return s.CurrentConditions(ctx, coord)
		})
	if !ok {
		logger.Warnf("serving fallback current conditions for %s", coord)
		return c.fallback.CurrentConditions(now), nil
	}

	if cur.Coordinate == (models.Coordinate{}) {
		cur.Coordinate = coord
	}
	if cur.Sunrise.IsZero() || cur.Sunset.IsZero() || !cur.Sunrise.Before(cur.Sunset) {
		cur.Sunrise, cur.Sunset = Daylight(now, cur.UTCOffset)
	}
	if cur.ObservedAt.IsZero() {
		cur.ObservedAt = now.UTC()
	}
	cur.Condition = normalizeCondition(cur.Condition, cur.IsDay(now))
	cur.Provider = provider
	cur.Source = models.SourceLive
	return cur, nil
}

// Forecast returns up to MaxForecastEntries entries ascending by time
func (c *Client) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	if err := validate("forecast", coord); err != nil {
		return models.Forecast{}, err
	}

	fc, provider, ok := tryEach(ctx, c.timeout, "forecast", c.sources.Forecast,
		func(ctx context.Context, s ForecastSource) (models.Forecast, error) {
			fc, err := s.Forecast(ctx, coord)
			if err == nil && len(fc.Entries) == 0 {
				err = NewMalformedError(s.Name(), "forecast", errors.New("no forecast entries"))
			}
			return fc, err
		})
	if !ok {
		logger.Warnf("serving fallback forecast for %s", coord)
		return c.fallback.Forecast(c.now()), nil
	}

	entries := make([]models.ForecastEntry, len(fc.Entries))
	copy(entries, fc.Entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Time.Before(entries[j].Time) })
	if len(entries) > MaxForecastEntries {
		entries = entries[:MaxForecastEntries]
	}
	for i := range entries {
		e := &entries[i]
		e.Condition = normalizeCondition(e.Condition, !strings.HasSuffix(e.Condition.Icon, "n"))
		e.PrecipitationProbability = clamp(e.PrecipitationProbability, 0, 1)
	}

	return models.Forecast{Entries: entries, Provider: provider, Source: models.SourceLive}, nil
}

// AirQuality returns the air quality reading at coord
func (c *Client) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	if err := validate("air quality", coord); err != nil {
		return models.AirQualityReading{}, err
	}

	aq, provider, ok := tryEach(ctx, c.timeout, "air quality", c.sources.AirQuality,
		func(ctx context.Context, s AirQualitySource) (models.AirQualityReading, error) {
			return s.AirQuality(ctx, coord)
		})
	if !ok {
		logger.Warnf("serving fallback air quality for %s", coord)
		return c.fallback.AirQuality(c.now()), nil
	}

	for _, v := range []*float64{&aq.CO, &aq.NO2, &aq.O3, &aq.SO2, &aq.PM25, &aq.PM10} {
		if *v < 0 {
			*v = 0
		}
	}
	if aq.AQI < 1 {
		aq.AQI = AQIFromPM25(aq.PM25)
	}
	aq.AQI = min(aq.AQI, 5)
	if aq.MeasuredAt.IsZero() {
		aq.MeasuredAt = c.now().UTC()
	}
	aq.Provider = provider
	aq.Source = models.SourceLive
	return aq, nil
}

// AQIFromPM25 estimates the 1..5 index from a PM2.5 concentration using
// the European index bands.
func AQIFromPM25(pm25 float64) int {
	switch {
	case pm25 < 10:
		return 1
	case pm25 < 20:
		return 2
	case pm25 < 25:
		return 3
	case pm25 < 50:
		return 4
	default:
		return 5
	}
}

var severityRank = map[models.Severity]int{
	models.SeverityExtreme:  4,
	models.SeveritySevere:   3,
	models.SeverityModerate: 2,
	models.SeverityMinor:    1,
}

// Alerts merges the alerts of every alert source that answers. Alerts
// are deduplicated by id and ordered most severe first.
func (c *Client) Alerts(ctx context.Context, coord models.Coordinate) (models.Alerts, error) {
	if err := validate("alerts", coord); err != nil {
		return models.Alerts{}, err
	}

	seen := make(map[string]bool)
	items := []models.WeatherAlert{}
	var providers []string

	for _, src := range c.sources.Alerts {
		alerts, provider, ok := tryEach(ctx, c.timeout, "alerts", []AlertSource{src},
			func(ctx context.Context, s AlertSource) ([]models.WeatherAlert, error) {
				return s.Alerts(ctx, coord)
			})
		if !ok {
			continue
		}
		providers = append(providers, provider)
		for _, a := range alerts {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			if _, known := severityRank[a.Severity]; !known {
				a.Severity = models.SeverityMinor
			}
			if a.Tags == nil {
				a.Tags = []string{}
			}
			items = append(items, a)
		}
	}

	if len(providers) == 0 {
		return c.fallback.Alerts(), nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := severityRank[items[i].Severity], severityRank[items[j].Severity]
		if ri != rj {
			return ri > rj
		}
		return items[i].Start.Before(items[j].Start)
	})
	return models.Alerts{Items: items, Provider: strings.Join(providers, ", "), Source: models.SourceLive}, nil
}

// UVIndex returns the UV index at coord
func (c *Client) UVIndex(ctx context.Context, coord models.Coordinate) (models.UVIndex, error) {
	if err := validate("uv index", coord); err != nil {
		return models.UVIndex{}, err
	}

	value, provider, ok := tryEach(ctx, c.timeout, "uv index", c.sources.UV,
		func(ctx context.Context, s UVSource) (float64, error) {
			return s.UVIndex(ctx, coord)
		})
	if !ok {
		return c.fallback.UVIndex(), nil
	}
	return newUVIndex(value, provider, models.SourceLive), nil
}

// MoonPhase returns the current lunar phase. It is computed locally.
func (c *Client) MoonPhase(_ context.Context) (models.MoonPhase, error) {
	return ComputeMoonPhase(c.now()), nil
}

// SearchCities returns up to MaxSearchResults cities matching query.
// Queries shorter than two characters return no results without any request.
func (c *Client) SearchCities(ctx context.Context, query string) ([]models.City, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return []models.City{}, nil
	}

	cities, _, ok := tryEach(ctx, c.timeout, "city search", c.sources.Search,
		func(ctx context.Context, s CitySearcher) ([]models.City, error) {
			return s.SearchCities(ctx, query, MaxSearchResults)
		})
	if !ok {
		cities, _ = c.gazetteer.SearchCities(ctx, query, MaxSearchResults)
	}
	if cities == nil {
		cities = []models.City{}
	}
	if len(cities) > MaxSearchResults {
		cities = cities[:MaxSearchResults]
	}
	return cities, nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
