package datasource

import (
	"context"
	"sync/atomic"

	"weatherlux/models"
)

// fakeSource implements every facet with canned results and counts calls
type fakeSource struct {
	name  string
	err   error
	block bool
	calls atomic.Int32

	current  models.CurrentConditions
	forecast models.Forecast
	air      models.AirQualityReading
	alerts   []models.WeatherAlert
	uv       float64
	cities   []models.City
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) enter(ctx context.Context) error {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return NewNetworkError(f.name, "fake", ctx.Err())
	}
	return f.err
}

func (f *fakeSource) CurrentConditions(ctx context.Context, _ models.Coordinate) (models.CurrentConditions, error) {
	if err := f.enter(ctx); err != nil {
		return models.CurrentConditions{}, err
	}
	return f.current, nil
}

func (f *fakeSource) Forecast(ctx context.Context, _ models.Coordinate) (models.Forecast, error) {
	if err := f.enter(ctx); err != nil {
		return models.Forecast{}, err
	}
	return f.forecast, nil
}

func (f *fakeSource) AirQuality(ctx context.Context, _ models.Coordinate) (models.AirQualityReading, error) {
	if err := f.enter(ctx); err != nil {
		return models.AirQualityReading{}, err
	}
	return f.air, nil
}

func (f *fakeSource) Alerts(ctx context.Context, _ models.Coordinate) ([]models.WeatherAlert, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	return f.alerts, nil
}

func (f *fakeSource) UVIndex(ctx context.Context, _ models.Coordinate) (float64, error) {
	if err := f.enter(ctx); err != nil {
		return 0, err
	}
	return f.uv, nil
}

func (f *fakeSource) SearchCities(ctx context.Context, _ string, _ int) ([]models.City, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	return f.cities, nil
}

var unreachable = NewNetworkError("fake", "fetch", context.DeadlineExceeded)
