package openweathermap

import (
	"context"
	"fmt"
	"time"

	"weatherlux/datasource"
	"weatherlux/models"
)

// OpenWeatherMapForecastResponse represents the 5 day / 3 hour forecast response
type OpenWeatherMapForecastResponse struct {
	List []struct {
		Dt      int64        `json:"dt"`
		Main    owmMain      `json:"main"`
		Weather []owmWeather `json:"weather"`
		Clouds  struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Wind       owmWind `json:"wind"`
		Visibility float64 `json:"visibility"`
		Pop        float64 `json:"pop"`
	} `json:"list"`
	City *struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

// Forecast fetches the 3-hourly forecast for the next five days
func (o *OpenWeatherMapSource) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	var forecastResp OpenWeatherMapForecastResponse
	if err := o.get(ctx, "forecast", "/data/2.5/forecast", coordParams(coord), &forecastResp); err != nil {
		return models.Forecast{}, err
	}
	if forecastResp.City == nil {
		return models.Forecast{}, datasource.NewMalformedError(o.Name(), "forecast", fmt.Errorf("response lacks city section"))
	}

	forecast := models.Forecast{Provider: o.Name()}
	for _, item := range forecastResp.List {
		forecast.Entries = append(forecast.Entries, models.ForecastEntry{
			Time:                     time.Unix(item.Dt, 0).UTC(),
			Condition:                condition(item.Weather),
			Temperature:              item.Main.Temp,
			FeelsLike:                item.Main.FeelsLike,
			TempMin:                  item.Main.TempMin,
			TempMax:                  item.Main.TempMax,
			WindSpeed:                item.Wind.Speed,
			WindDeg:                  item.Wind.Deg,
			Humidity:                 item.Main.Humidity,
			Pressure:                 item.Main.Pressure,
			Visibility:               item.Visibility,
			Clouds:                   item.Clouds.All,
			PrecipitationProbability: item.Pop,
		})
	}

	return forecast, nil
}
