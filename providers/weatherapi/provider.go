// Package weatherapi fetches weather data from WeatherAPI.com.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weatherlux/datasource"
	"weatherlux/models"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPISource implements the current conditions, forecast, air quality,
// alert, UV and city search facets for WeatherAPI.com
type WeatherAPISource struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a WeatherAPISource
type Option func(*WeatherAPISource)

// WithBaseURL points the source at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(w *WeatherAPISource) {
		if baseURL != "" {
			w.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(w *WeatherAPISource) { w.client = client }
}

// NewWeatherAPISource creates a new WeatherAPI data source
func NewWeatherAPISource(apiKey string, opts ...Option) *WeatherAPISource {
	w := &WeatherAPISource{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the name of this data source
func (w *WeatherAPISource) Name() string {
	return "WeatherAPI"
}

func query(coord models.Coordinate) string {
	return fmt.Sprintf("%.4f,%.4f", coord.Latitude, coord.Longitude)
}

// get performs a GET on endpoint and decodes the JSON body into dest
func (w *WeatherAPISource) get(ctx context.Context, op, endpoint string, params url.Values, dest interface{}) error {
	params.Set("key", w.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", w.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return datasource.NewNetworkError(w.Name(), op, fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return datasource.NewNetworkError(w.Name(), op, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return datasource.NewNetworkError(w.Name(), op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return datasource.NewUpstreamError(w.Name(), op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return datasource.NewMalformedError(w.Name(), op, fmt.Errorf("failed to parse API response: %w", err))
	}
	return nil
}

type apiCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

func (c apiCondition) normalize(isDay int) models.Condition {
	cond := datasource.LookupCondition(ConditionCode(c.Code), isDay == 1)
	if c.Text != "" {
		cond.Description = strings.ToLower(strings.TrimSpace(c.Text))
	}
	return cond
}

type apiLocation struct {
	Name           string  `json:"name"`
	Region         string  `json:"region"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	LocaltimeEpoch int64   `json:"localtime_epoch"`
	Localtime      string  `json:"localtime"`
}

// utcOffset derives the offset from the local wall clock and the epoch,
// rounded to 15 minutes. It avoids depending on a tz database.
func (l apiLocation) utcOffset() int {
	local, err := time.Parse("2006-01-02 15:04", l.Localtime)
	if err != nil || l.LocaltimeEpoch == 0 {
		return 0
	}
	diff := local.Unix() - l.LocaltimeEpoch
	const quarter = 15 * 60
	if diff >= 0 {
		return int((diff + quarter/2) / quarter * quarter)
	}
	return int((diff - quarter/2) / quarter * quarter)
}

type apiCurrent struct {
	LastUpdatedEpoch int64        `json:"last_updated_epoch"`
	TempC            float64      `json:"temp_c"`
	FeelsLikeC       float64      `json:"feelslike_c"`
	IsDay            int          `json:"is_day"`
	Condition        apiCondition `json:"condition"`
	WindKph          float64      `json:"wind_kph"`
	WindDegree       int          `json:"wind_degree"`
	PressureMb       float64      `json:"pressure_mb"`
	Humidity         float64      `json:"humidity"`
	Cloud            float64      `json:"cloud"`
	VisKm            float64      `json:"vis_km"`
	UV               float64      `json:"uv"`
	AirQuality       *struct {
		CO       float64 `json:"co"`
		NO2      float64 `json:"no2"`
		O3       float64 `json:"o3"`
		SO2      float64 `json:"so2"`
		PM25     float64 `json:"pm2_5"`
		PM10     float64 `json:"pm10"`
		EPAIndex int     `json:"us-epa-index"`
	} `json:"air_quality"`
}

// CurrentConditions fetches the current conditions together with today's
// astronomy and temperature range in a single request
func (w *WeatherAPISource) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	params := url.Values{}
	params.Add("q", query(coord))
	params.Add("days", "1")
	params.Add("aqi", "no")
	params.Add("alerts", "no")

	var response struct {
		Location *apiLocation `json:"location"`
		Current  *apiCurrent  `json:"current"`
		Forecast struct {
			ForecastDay []apiForecastDay `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := w.get(ctx, "current", "forecast.json", params, &response); err != nil {
		return models.CurrentConditions{}, err
	}
	if response.Location == nil || response.Current == nil {
		return models.CurrentConditions{}, datasource.NewMalformedError(w.Name(), "current", fmt.Errorf("response lacks location or current section"))
	}

	loc, cur := response.Location, response.Current
	offset := loc.utcOffset()

	result := models.CurrentConditions{
		Name:        loc.Name,
		Country:     loc.Country,
		Coordinate:  models.Coordinate{Latitude: loc.Lat, Longitude: loc.Lon},
		Condition:   cur.Condition.normalize(cur.IsDay),
		Temperature: cur.TempC,
		FeelsLike:   cur.FeelsLikeC,
		TempMin:     cur.TempC,
		TempMax:     cur.TempC,
		WindSpeed:   cur.WindKph / 3.6, // Convert to m/s
		WindDeg:     cur.WindDegree,
		Humidity:    cur.Humidity,
		Pressure:    cur.PressureMb,
		Visibility:  cur.VisKm * 1000,
		Clouds:      cur.Cloud,
		UTCOffset:   offset,
	}
	if cur.LastUpdatedEpoch > 0 {
		result.ObservedAt = time.Unix(cur.LastUpdatedEpoch, 0).UTC()
	}

	if days := response.Forecast.ForecastDay; len(days) > 0 {
		today := days[0]
		result.TempMin = today.Day.MinTempC
		result.TempMax = today.Day.MaxTempC
		result.Sunrise = parseAstro(today.Date, today.Astro.Sunrise, offset)
		result.Sunset = parseAstro(today.Date, today.Astro.Sunset, offset)
	}

	return result, nil
}

// parseAstro converts a local "05:43 AM" on date into UTC. It returns the
// zero time for values like "No sunrise".
func parseAstro(date, clock string, utcOffset int) time.Time {
	t, err := time.Parse("2006-01-02 03:04 PM", date+" "+strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}
	}
	return t.Add(-time.Duration(utcOffset) * time.Second).UTC()
}

// AirQuality fetches pollutant concentrations. The US EPA index (1-6) is
// folded into the 1-5 scale.
func (w *WeatherAPISource) AirQuality(ctx context.Context, coord models.Coordinate) (models.AirQualityReading, error) {
	params := url.Values{}
	params.Add("q", query(coord))
	params.Add("aqi", "yes")

	var response struct {
		Current *apiCurrent `json:"current"`
	}
	if err := w.get(ctx, "air quality", "current.json", params, &response); err != nil {
		return models.AirQualityReading{}, err
	}
	if response.Current == nil || response.Current.AirQuality == nil {
		return models.AirQualityReading{}, datasource.NewMalformedError(w.Name(), "air quality", fmt.Errorf("response lacks air_quality section"))
	}

	aq := response.Current.AirQuality
	reading := models.AirQualityReading{
		AQI:  min(aq.EPAIndex, 5),
		CO:   aq.CO,
		NO2:  aq.NO2,
		O3:   aq.O3,
		SO2:  aq.SO2,
		PM25: aq.PM25,
		PM10: aq.PM10,
	}
	if response.Current.LastUpdatedEpoch > 0 {
		reading.MeasuredAt = time.Unix(response.Current.LastUpdatedEpoch, 0).UTC()
	}
	return reading, nil
}

// UVIndex fetches the current UV index
func (w *WeatherAPISource) UVIndex(ctx context.Context, coord models.Coordinate) (float64, error) {
	params := url.Values{}
	params.Add("q", query(coord))

	var response struct {
		Current *apiCurrent `json:"current"`
	}
	if err := w.get(ctx, "uv", "current.json", params, &response); err != nil {
		return 0, err
	}
	if response.Current == nil {
		return 0, datasource.NewMalformedError(w.Name(), "uv", fmt.Errorf("response lacks current section"))
	}
	return response.Current.UV, nil
}

// SearchCities uses the search/autocomplete endpoint
func (w *WeatherAPISource) SearchCities(ctx context.Context, q string, limit int) ([]models.City, error) {
	params := url.Values{}
	params.Add("q", q)

	var response []struct {
		ID      int64   `json:"id"`
		Name    string  `json:"name"`
		Region  string  `json:"region"`
		Country string  `json:"country"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := w.get(ctx, "search", "search.json", params, &response); err != nil {
		return nil, err
	}

	cities := make([]models.City, 0, len(response))
	for _, r := range response {
		if limit > 0 && len(cities) >= limit {
			break
		}
		cities = append(cities, models.City{
			ID:         fmt.Sprintf("%d", r.ID),
			Name:       r.Name,
			Region:     r.Region,
			Country:    r.Country,
			Coordinate: models.Coordinate{Latitude: r.Lat, Longitude: r.Lon},
		})
	}
	return cities, nil
}

// Ensure WeatherAPISource implements the facets it serves
var (
	_ datasource.CurrentSource    = (*WeatherAPISource)(nil)
	_ datasource.ForecastSource   = (*WeatherAPISource)(nil)
	_ datasource.AirQualitySource = (*WeatherAPISource)(nil)
	_ datasource.AlertSource      = (*WeatherAPISource)(nil)
	_ datasource.UVSource         = (*WeatherAPISource)(nil)
	_ datasource.CitySearcher     = (*WeatherAPISource)(nil)
)
