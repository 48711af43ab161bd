package openweathermap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlux/datasource"
	"weatherlux/models"
)

var london = models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

const weatherBody = `{
  "coord": {"lon": -0.1278, "lat": 51.5074},
  "weather": [{"id": 801, "main": "Clouds", "description": "few clouds", "icon": "02d"}],
  "main": {"temp": 22, "feels_like": 24, "temp_min": 19, "temp_max": 25, "pressure": 1013, "humidity": 65},
  "visibility": 10000,
  "wind": {"speed": 3.5, "deg": 230},
  "clouds": {"all": 20},
  "dt": 1717416000,
  "sys": {"country": "GB", "sunrise": 1717386180, "sunset": 1717445580},
  "timezone": 3600,
  "name": "London",
  "cod": 200
}`

const forecastBody = `{
  "cod": "200",
  "list": [
    {"dt": 1717416000, "main": {"temp": 18.1, "feels_like": 17.5, "temp_min": 17, "temp_max": 18.1, "pressure": 1010, "humidity": 70},
     "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
     "clouds": {"all": 80}, "wind": {"speed": 4.1, "deg": 250}, "visibility": 10000, "pop": 0.62},
    {"dt": 1717426800, "main": {"temp": 16.4, "feels_like": 16, "temp_min": 16, "temp_max": 16.4, "pressure": 1011, "humidity": 74},
     "weather": [{"id": 804, "main": "Clouds", "description": "overcast clouds", "icon": "04n"}],
     "clouds": {"all": 100}, "wind": {"speed": 3.2, "deg": 260}, "visibility": 10000, "pop": 0.1}
  ],
  "city": {"name": "London", "country": "GB", "timezone": 3600}
}`

func newTestSource(t *testing.T, handler http.HandlerFunc) *OpenWeatherMapSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOpenWeatherMapSource("test-key", WithBaseURL(server.URL), WithRetry(0, 0, 0))
}

func TestCurrentConditions(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("appid"))
		assert.Equal(t, "51.5074", q.Get("lat"))
		assert.Equal(t, "-0.1278", q.Get("lon"))
		assert.Equal(t, "metric", q.Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherBody))
	})

	cur, err := src.CurrentConditions(context.Background(), london)
	require.NoError(t, err)

	assert.Equal(t, "London", cur.Name)
	assert.Equal(t, "GB", cur.Country)
	assert.Equal(t, london, cur.Coordinate)
	assert.Equal(t, models.Condition{Code: 801, Main: "Clouds", Description: "few clouds", Icon: "02d"}, cur.Condition)
	assert.Equal(t, 22.0, cur.Temperature)
	assert.Equal(t, 3.5, cur.WindSpeed)
	assert.Equal(t, 230, cur.WindDeg)
	assert.Equal(t, 3600, cur.UTCOffset)
	assert.Equal(t, int64(1717386180), cur.Sunrise.Unix())
	assert.True(t, cur.Sunrise.Before(cur.Sunset))
}

func TestForecast(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		w.Write([]byte(forecastBody))
	})

	fc, err := src.Forecast(context.Background(), london)
	require.NoError(t, err)
	require.Len(t, fc.Entries, 2)

	assert.Equal(t, "OpenWeatherMap", fc.Provider)
	assert.Equal(t, "Rain", fc.Entries[0].Condition.Main)
	assert.Equal(t, 0.62, fc.Entries[0].PrecipitationProbability)
	assert.Equal(t, "04n", fc.Entries[1].Condition.Icon)
	assert.WithinDuration(t, time.Unix(1717426800, 0), fc.Entries[1].Time, 0)
}

func TestAirQuality(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/air_pollution", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("units"))
		w.Write([]byte(`{"coord": {"lon": -0.1278, "lat": 51.5074}, "list": [{"main": {"aqi": 2},
			"components": {"co": 233.6, "no": 0.01, "no2": 13.4, "o3": 54.3, "so2": 3.73, "pm2_5": 8.32, "pm10": 15.4, "nh3": 2.21},
			"dt": 1717416000}]}`))
	})

	aq, err := src.AirQuality(context.Background(), london)
	require.NoError(t, err)
	assert.Equal(t, 2, aq.AQI)
	assert.Equal(t, 13.4, aq.NO2)
	assert.Equal(t, 15.4, aq.PM10)
}

func TestAirQualityEmptyList(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": []}`))
	})

	_, err := src.AirQuality(context.Background(), london)
	assert.Equal(t, datasource.MalformedResponse, datasource.KindOf(err))
}

func TestSearchCities(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"name": "Paris", "lat": 48.8589, "lon": 2.32, "country": "FR", "state": "Ile-de-France"},
			{"name": "Paris", "lat": 33.66, "lon": -95.55, "country": "US", "state": "Texas"}]`))
	})

	cities, err := src.SearchCities(context.Background(), "Paris", 5)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Texas", cities[1].Region)
}

func TestErrorClassification(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"cod": 401, "message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`))
		})

		_, err := src.CurrentConditions(context.Background(), london)
		var dsErr *datasource.Error
		require.True(t, errors.As(err, &dsErr))
		assert.Equal(t, datasource.UpstreamError, dsErr.Kind)
		assert.Equal(t, http.StatusUnauthorized, dsErr.StatusCode)
		assert.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("malformed", func(t *testing.T) {
		src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := src.CurrentConditions(context.Background(), london)
		assert.Equal(t, datasource.MalformedResponse, datasource.KindOf(err))
	})

	t.Run("missing main", func(t *testing.T) {
		src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"name": "London"}`))
		})

		_, err := src.CurrentConditions(context.Background(), london)
		assert.Equal(t, datasource.MalformedResponse, datasource.KindOf(err))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		src := NewOpenWeatherMapSource("test-key", WithBaseURL(server.URL), WithRetry(0, 0, 0))

		_, err := src.Forecast(context.Background(), london)
		assert.Equal(t, datasource.NetworkFailure, datasource.KindOf(err))
	})
}

func TestSecondTierAfterOutage(t *testing.T) {
	owm := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weatherBody))
	})
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(down.Close)
	primary := NewOpenWeatherMapSource("k", WithBaseURL(down.URL), WithRetry(0, 0, 0))

	sources := datasource.SourcesOf(primary).Append(datasource.SourcesOf(owm))
	client := datasource.NewClient(sources)

	cur, err := client.CurrentConditions(context.Background(), london)
	require.NoError(t, err)
	assert.Equal(t, models.SourceLive, cur.Source)
	assert.Equal(t, "London", cur.Name)
}
