package models

import (
	"time"
)

// Source tells whether an entity came from a provider or was synthesized
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	// SourceComputed marks values derived locally without any provider (moon phase).
	SourceComputed Source = "computed"
)

// Condition is a normalized weather condition. Code uses the
// OpenWeatherMap condition id space.
type Condition struct {
	Code        int    `json:"code"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentConditions is the observed weather at a location.
// Temperatures are in Celsius, speeds in m/s.
type CurrentConditions struct {
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	Coordinate Coordinate `json:"coordinate"`
	Condition  Condition  `json:"condition"`

	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`

	WindSpeed  float64 `json:"windSpeed"`
	WindDeg    int     `json:"windDeg"`
	Humidity   float64 `json:"humidity"`   // percentage
	Pressure   float64 `json:"pressure"`   // in hPa
	Visibility float64 `json:"visibility"` // in meters
	Clouds     float64 `json:"clouds"`     // percentage

	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	UTCOffset int       `json:"utcOffset"` // seconds east of UTC

	ObservedAt time.Time `json:"observedAt"`
	Provider   string    `json:"provider"`
	Source     Source    `json:"source"`
}

// IsDay reports whether t falls between sunrise and sunset
func (c CurrentConditions) IsDay(t time.Time) bool {
	return !t.Before(c.Sunrise) && t.Before(c.Sunset)
}

// AirQualityReading holds the air quality index (1 good .. 5 very poor)
// and pollutant concentrations in µg/m³
type AirQualityReading struct {
	AQI        int       `json:"aqi"`
	CO         float64   `json:"co"`
	NO2        float64   `json:"no2"`
	O3         float64   `json:"o3"`
	SO2        float64   `json:"so2"`
	PM25       float64   `json:"pm2_5"`
	PM10       float64   `json:"pm10"`
	MeasuredAt time.Time `json:"measuredAt"`
	Provider   string    `json:"provider"`
	Source     Source    `json:"source"`
}

// Severity of a weather alert
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityExtreme  Severity = "extreme"
)

// WeatherAlert is an official warning valid between Start and End
type WeatherAlert struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Tags        []string  `json:"tags"`
}

// Alerts is the set of alerts returned by one source
type Alerts struct {
	Items    []WeatherAlert `json:"items"`
	Provider string         `json:"provider"`
	Source   Source         `json:"source"`
}

// UVIndex is the ultraviolet index with its WHO risk band
type UVIndex struct {
	Value    float64 `json:"value"`
	Risk     string  `json:"risk"`
	Color    string  `json:"color"`
	Provider string  `json:"provider"`
	Source   Source  `json:"source"`
}

// MoonPhase is the lunar phase, 0 new moon, 0.5 full moon
type MoonPhase struct {
	Phase  float64 `json:"phase"`
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Source Source  `json:"source"`
}
