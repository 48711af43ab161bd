package datasource

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"weatherlux/models"
)

const (
	fallbackProvider = "Fallback"
	fallbackHours    = 8
)

// Fallback generates the synthetic data served when every provider fails.
// Values depend only on the reference city, the seed and the current day,
// so equal inputs give equal outputs.
type Fallback struct {
	city models.City
	seed int64
}

// NewFallback creates a generator for the given reference city and seed
func NewFallback(city models.City, seed int64) *Fallback {
	return &Fallback{city: city, seed: seed}
}

// City returns the reference city
func (f *Fallback) City() models.City {
	return f.city
}

// Daylight returns sunrise at 06:00 and sunset at 18:00 of the local day
// containing now, for a location utcOffset seconds east of UTC.
func Daylight(now time.Time, utcOffset int) (sunrise, sunset time.Time) {
	zone := time.FixedZone("", utcOffset)
	local := now.In(zone)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
	return dayStart.Add(6 * time.Hour).UTC(), dayStart.Add(18 * time.Hour).UTC()
}

// CurrentConditions returns the fixed fallback record
func (f *Fallback) CurrentConditions(now time.Time) models.CurrentConditions {
	sunrise, sunset := Daylight(now, 0)
	cur := models.CurrentConditions{
		Name:        f.city.Name,
		Country:     f.city.Country,
		Coordinate:  f.city.Coordinate,
		Temperature: 22,
		FeelsLike:   24,
		TempMin:     19,
		TempMax:     25,
		WindSpeed:   3.5,
		WindDeg:     230,
		Humidity:    65,
		Pressure:    1013,
		Visibility:  10000,
		Clouds:      20,
		Sunrise:     sunrise,
		Sunset:      sunset,
		UTCOffset:   0,
		ObservedAt:  now.UTC(),
		Provider:    fallbackProvider,
		Source:      models.SourceFallback,
	}
	cur.Condition = LookupCondition(801, cur.IsDay(now))
	return cur
}

// Forecast returns eight hourly entries starting at the next full hour.
// The values follow a smooth daily curve of the entry index plus a small
// jitter drawn from a generator seeded with the configured seed.
func (f *Fallback) Forecast(now time.Time) models.Forecast {
	rng := rand.New(rand.NewSource(f.seed))
	start := now.UTC().Truncate(time.Hour)

	entries := make([]models.ForecastEntry, fallbackHours)
	for i := range entries {
		wave := math.Sin(2 * math.Pi * float64(i) / fallbackHours)
		jitter := rng.Float64() - 0.5

		temp := 22 + 3*wave + jitter
		code := 800 + i%4
		t := start.Add(time.Duration(i+1) * time.Hour)
		hour := t.Hour()

		entries[i] = models.ForecastEntry{
			Time:                     t,
			Condition:                LookupCondition(code, hour >= 6 && hour < 18),
			Temperature:              round1(temp),
			FeelsLike:                round1(temp + 1.5),
			TempMin:                  round1(temp - 2),
			TempMax:                  round1(temp + 2),
			WindSpeed:                round1(3.5 + 1.5*math.Cos(2*math.Pi*float64(i)/fallbackHours) + jitter),
			WindDeg:                  (230 + 15*i) % 360,
			Humidity:                 math.Round(65 - 10*wave),
			Pressure:                 math.Round(1013 + 3*wave),
			Visibility:               10000,
			Clouds:                   float64(25 * (i % 4)),
			PrecipitationProbability: round2(0.25 + 0.25*wave),
		}
	}

	return models.Forecast{Entries: entries, Provider: fallbackProvider, Source: models.SourceFallback}
}

// AirQuality returns the fixed fallback reading
func (f *Fallback) AirQuality(now time.Time) models.AirQualityReading {
	return models.AirQualityReading{
		AQI:        2,
		CO:         233.6,
		NO2:        13.4,
		O3:         54.3,
		SO2:        3.73,
		PM25:       8.32,
		PM10:       15.4,
		MeasuredAt: now.UTC(),
		Provider:   fallbackProvider,
		Source:     models.SourceFallback,
	}
}

// Alerts returns an empty alert list; synthetic alerts would be misleading
func (f *Fallback) Alerts() models.Alerts {
	return models.Alerts{Items: []models.WeatherAlert{}, Provider: fallbackProvider, Source: models.SourceFallback}
}

// UVIndex returns a fixed moderate-to-high reading
func (f *Fallback) UVIndex() models.UVIndex {
	return newUVIndex(6, fallbackProvider, models.SourceFallback)
}

func (f *Fallback) String() string {
	return fmt.Sprintf("fallback(%s, seed=%d)", f.city.Name, f.seed)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
