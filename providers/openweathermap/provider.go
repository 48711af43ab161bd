// Package openweathermap fetches weather data from OpenWeatherMap.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"weatherlux/datasource"
	"weatherlux/models"
)

const (
	defaultBaseURL = "https://api.openweathermap.org"
	userAgent      = "weatherlux/1.0"
)

// OpenWeatherMapSource implements the current conditions, forecast, air
// quality and geocoding facets for OpenWeatherMap
type OpenWeatherMapSource struct {
	apiKey string
	client *resty.Client
}

// Option configures an OpenWeatherMapSource
type Option func(*OpenWeatherMapSource)

// WithBaseURL points the source at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(o *OpenWeatherMapSource) {
		if baseURL != "" {
			o.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
		}
	}
}

// WithRetry configures retries for transient transport failures
func WithRetry(count int, wait, maxWait time.Duration) Option {
	return func(o *OpenWeatherMapSource) {
		o.client.SetRetryCount(count).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(maxWait)
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *OpenWeatherMapSource) { o.client.SetTransport(rt) }
}

// NewOpenWeatherMapSource creates a new OpenWeatherMap data source
func NewOpenWeatherMapSource(apiKey string, opts ...Option) *OpenWeatherMapSource {
	o := &OpenWeatherMapSource{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL(defaultBaseURL).
			SetHeader("User-Agent", userAgent).
			SetTimeout(10 * time.Second).
			SetRetryCount(1).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name returns the name of this data source
func (o *OpenWeatherMapSource) Name() string {
	return "OpenWeatherMap"
}

func coordParams(coord models.Coordinate) map[string]string {
	return map[string]string{
		"lat":   fmt.Sprintf("%.4f", coord.Latitude),
		"lon":   fmt.Sprintf("%.4f", coord.Longitude),
		"units": "metric",
	}
}

// get performs a GET on path and decodes the JSON body into dest
func (o *OpenWeatherMapSource) get(ctx context.Context, op, path string, params map[string]string, dest interface{}) error {
	params["appid"] = o.apiKey

	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return datasource.NewNetworkError(o.Name(), op, fmt.Errorf("failed to send request: %w", err))
	}

	if !resp.IsSuccess() {
		return datasource.NewUpstreamError(o.Name(), op, resp.StatusCode(), []byte(errorMessage(resp)))
	}

	if err := json.Unmarshal(resp.Body(), dest); err != nil {
		return datasource.NewMalformedError(o.Name(), op, fmt.Errorf("failed to parse API response: %w", err))
	}
	return nil
}

// errorMessage extracts the message of an OpenWeatherMap error body
func errorMessage(resp *resty.Response) string {
	var apiError struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &apiError); err == nil && apiError.Message != "" {
		return apiError.Message
	}
	return resp.Status()
}

type owmWeather struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// condition takes the first weather entry; the day flag comes from the icon
func condition(weather []owmWeather) models.Condition {
	if len(weather) == 0 {
		return datasource.LookupCondition(datasource.ClearSkyCode, true)
	}
	w := weather[0]
	cond := datasource.LookupCondition(w.ID, !strings.HasSuffix(w.Icon, "n"))
	if w.Description != "" && datasource.KnownCondition(w.ID) {
		cond.Description = w.Description
	}
	return cond
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type owmWind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// OpenWeatherMapResponse represents the current weather response
type OpenWeatherMapResponse struct {
	Coord *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather    []owmWeather `json:"weather"`
	Main       *owmMain     `json:"main"`
	Visibility float64      `json:"visibility"`
	Wind       owmWind      `json:"wind"`
	Clouds     struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

// CurrentConditions fetches the current weather
func (o *OpenWeatherMapSource) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	var owmResp OpenWeatherMapResponse
	if err := o.get(ctx, "current", "/data/2.5/weather", coordParams(coord), &owmResp); err != nil {
		return models.CurrentConditions{}, err
	}
	if owmResp.Main == nil {
		return models.CurrentConditions{}, datasource.NewMalformedError(o.Name(), "current", fmt.Errorf("response lacks main section"))
	}

	data := models.CurrentConditions{
		Name:        owmResp.Name,
		Country:     owmResp.Sys.Country,
		Condition:   condition(owmResp.Weather),
		Temperature: owmResp.Main.Temp,
		FeelsLike:   owmResp.Main.FeelsLike,
		TempMin:     owmResp.Main.TempMin,
		TempMax:     owmResp.Main.TempMax,
		WindSpeed:   owmResp.Wind.Speed,
		WindDeg:     owmResp.Wind.Deg,
		Humidity:    owmResp.Main.Humidity,
		Pressure:    owmResp.Main.Pressure,
		Visibility:  owmResp.Visibility,
		Clouds:      owmResp.Clouds.All,
		UTCOffset:   owmResp.Timezone,
	}
	if owmResp.Coord != nil {
		data.Coordinate = models.Coordinate{Latitude: owmResp.Coord.Lat, Longitude: owmResp.Coord.Lon}
	}
	if owmResp.Dt > 0 {
		data.ObservedAt = time.Unix(owmResp.Dt, 0).UTC()
	}
	if owmResp.Sys.Sunrise > 0 && owmResp.Sys.Sunset > 0 {
		data.Sunrise = time.Unix(owmResp.Sys.Sunrise, 0).UTC()
		data.Sunset = time.Unix(owmResp.Sys.Sunset, 0).UTC()
	}

	return data, nil
}

// AirQuality fetches the air pollution index and components
func (o *OpenWeatherMapSource) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	var response struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				CO   float64 `json:"co"`
				NO2  float64 `json:"no2"`
				O3   float64 `json:"o3"`
				SO2  float64 `json:"so2"`
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
			} `json:"components"`
		} `json:"list"`
	}

	params := coordParams(coord)
	delete(params, "units")
	if err := o.get(ctx, "air quality", "/data/2.5/air_pollution", params, &response); err != nil {
		return models.AirQualityReading{}, err
	}
	if len(response.List) == 0 {
		return models.AirQualityReading{}, datasource.NewMalformedError(o.Name(), "air quality", fmt.Errorf("empty pollution list"))
	}

	item := response.List[0]
	reading := models.AirQualityReading{
		AQI:  item.Main.AQI,
		CO:   item.Components.CO,
		NO2:  item.Components.NO2,
		O3:   item.Components.O3,
		SO2:  item.Components.SO2,
		PM25: item.Components.PM25,
		PM10: item.Components.PM10,
	}
	if item.Dt > 0 {
		reading.MeasuredAt = time.Unix(item.Dt, 0).UTC()
	}
	return reading, nil
}

// SearchCities uses the direct geocoding endpoint
func (o *OpenWeatherMapSource) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	var response []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
		State   string  `json:"state"`
	}

	params := map[string]string{"q": query}
	if limit > 0 {
		params["limit"] = fmt.Sprintf("%d", limit)
	}
	if err := o.get(ctx, "search", "/geo/1.0/direct", params, &response); err != nil {
		return nil, err
	}

	cities := make([]models.City, 0, len(response))
	for _, r := range response {
		cities = append(cities, models.City{
			Name:       r.Name,
			Region:     r.State,
			Country:    r.Country,
			Coordinate: models.Coordinate{Latitude: r.Lat, Longitude: r.Lon},
		})
	}
	return cities, nil
}

// Ensure OpenWeatherMapSource implements the facets it serves
var (
	_ datasource.CurrentSource    = (*OpenWeatherMapSource)(nil)
	_ datasource.ForecastSource   = (*OpenWeatherMapSource)(nil)
	_ datasource.AirQualitySource = (*OpenWeatherMapSource)(nil)
	_ datasource.CitySearcher     = (*OpenWeatherMapSource)(nil)
)
