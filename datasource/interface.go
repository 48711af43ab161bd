package datasource

import (
	"context"

	"weatherlux/models"
)

// CurrentSource fetches the current conditions at a coordinate
type CurrentSource interface {
	Name() string
	CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error)
}

// ForecastSource fetches an hourly (or 3-hourly) forecast
type ForecastSource interface {
	Name() string
	Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error)
}

// AirQualitySource fetches pollutant concentrations
type AirQualitySource interface {
	Name() string
	AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error)
}

// AlertSource fetches active weather alerts
type AlertSource interface {
	Name() string
	Alerts(ctx context.Context, coord models.Coordinate) ([]models.WeatherAlert, error)
}

// UVSource fetches the raw UV index value
type UVSource interface {
	Name() string
	UVIndex(ctx context.Context, coord models.Coordinate) (float64, error)
}

// CitySearcher resolves a free-text query to cities
type CitySearcher interface {
	Name() string
	SearchCities(ctx context.Context, query string, limit int) ([]models.City, error)
}
