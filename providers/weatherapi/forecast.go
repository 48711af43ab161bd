package weatherapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"weatherlux/datasource"
	"weatherlux/models"
)

// forecastDays is the window available on the free tier
const forecastDays = 3

type apiForecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC float64 `json:"maxtemp_c"`
		MinTempC float64 `json:"mintemp_c"`
	} `json:"day"`
	Astro struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"astro"`
	Hour []struct {
		TimeEpoch    int64        `json:"time_epoch"`
		TempC        float64      `json:"temp_c"`
		FeelsLikeC   float64      `json:"feelslike_c"`
		IsDay        int          `json:"is_day"`
		Condition    apiCondition `json:"condition"`
		WindKph      float64      `json:"wind_kph"`
		WindDegree   int          `json:"wind_degree"`
		PressureMb   float64      `json:"pressure_mb"`
		Humidity     float64      `json:"humidity"`
		Cloud        float64      `json:"cloud"`
		VisKm        float64      `json:"vis_km"`
		ChanceOfRain float64      `json:"chance_of_rain"`
		ChanceOfSnow float64      `json:"chance_of_snow"`
	} `json:"hour"`
}

// Forecast fetches the hourly forecast for the next three days
func (w *WeatherAPISource) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	params := url.Values{}
	params.Add("q", query(coord))
	params.Add("days", fmt.Sprintf("%d", forecastDays))
	params.Add("aqi", "no")
	params.Add("alerts", "no")

	var response struct {
		Forecast *struct {
			ForecastDay []apiForecastDay `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := w.get(ctx, "forecast", "forecast.json", params, &response); err != nil {
		return models.Forecast{}, err
	}
	if response.Forecast == nil {
		return models.Forecast{}, datasource.NewMalformedError(w.Name(), "forecast", fmt.Errorf("response lacks forecast section"))
	}

	forecast := models.Forecast{Provider: w.Name()}

	// Process hourly forecasts for each day
	for _, day := range response.Forecast.ForecastDay {
		for _, hour := range day.Hour {
			forecast.Entries = append(forecast.Entries, models.ForecastEntry{
				Time:                     time.Unix(hour.TimeEpoch, 0).UTC(),
				Condition:                hour.Condition.normalize(hour.IsDay),
				Temperature:              hour.TempC,
				FeelsLike:                hour.FeelsLikeC,
				TempMin:                  day.Day.MinTempC,
				TempMax:                  day.Day.MaxTempC,
				WindSpeed:                hour.WindKph / 3.6, // Convert to m/s
				WindDeg:                  hour.WindDegree,
				Humidity:                 hour.Humidity,
				Pressure:                 hour.PressureMb,
				Visibility:               hour.VisKm * 1000,
				Clouds:                   hour.Cloud,
				PrecipitationProbability: max(hour.ChanceOfRain, hour.ChanceOfSnow) / 100,
			})
		}
	}

	return forecast, nil
}

type apiAlert struct {
	Headline  string `json:"headline"`
	Severity  string `json:"severity"`
	Areas     string `json:"areas"`
	Category  string `json:"category"`
	Event     string `json:"event"`
	Effective string `json:"effective"`
	Expires   string `json:"expires"`
	Desc      string `json:"desc"`
}

// Alerts fetches active government alerts for the location
func (w *WeatherAPISource) Alerts(ctx context.Context, coord models.Coordinate) ([]models.WeatherAlert, error) {
	params := url.Values{}
	params.Add("q", query(coord))
	params.Add("days", "1")
	params.Add("aqi", "no")
	params.Add("alerts", "yes")

	var response struct {
		Alerts *struct {
			Alert []apiAlert `json:"alert"`
		} `json:"alerts"`
	}
	if err := w.get(ctx, "alerts", "forecast.json", params, &response); err != nil {
		return nil, err
	}

	alerts := []models.WeatherAlert{}
	if response.Alerts == nil {
		return alerts, nil
	}

	for _, a := range response.Alerts.Alert {
		alert := models.WeatherAlert{
			ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte(w.Name()+"|"+a.Headline+"|"+a.Effective+"|"+a.Areas)).String(),
			Title:       firstNonEmpty(a.Event, a.Headline),
			Description: strings.TrimSpace(a.Desc),
			Severity:    capSeverity(a.Severity),
			Tags:        alertTags(a),
		}
		alert.Start, _ = time.Parse(time.RFC3339, a.Effective)
		alert.End, _ = time.Parse(time.RFC3339, a.Expires)
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// capSeverity maps a CAP severity to the internal scale
func capSeverity(s string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extreme":
		return models.SeverityExtreme
	case "severe":
		return models.SeveritySevere
	case "moderate":
		return models.SeverityModerate
	default:
		return models.SeverityMinor
	}
}

func alertTags(a apiAlert) []string {
	tags := []string{}
	for _, raw := range []string{a.Event, a.Category} {
		for _, part := range strings.Split(raw, ";") {
			if tag := strings.ToLower(strings.TrimSpace(part)); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
