package models

import (
	"time"
)

// ForecastEntry is the predicted weather for a single time slot
type ForecastEntry struct {
	Time      time.Time `json:"time"`
	Condition Condition `json:"condition"`

	Temperature float64 `json:"temperature"` // in Celsius
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`

	WindSpeed  float64 `json:"windSpeed"` // in m/s
	WindDeg    int     `json:"windDeg"`
	Humidity   float64 `json:"humidity"`
	Pressure   float64 `json:"pressure"`
	Visibility float64 `json:"visibility"`
	Clouds     float64 `json:"clouds"`

	// PrecipitationProbability is in [0, 1]
	PrecipitationProbability float64 `json:"pop"`
}

// Forecast is an ordered sequence of entries, ascending by time
type Forecast struct {
	Entries  []ForecastEntry `json:"entries"`
	Provider string          `json:"provider"`
	Source   Source          `json:"source"`
}
