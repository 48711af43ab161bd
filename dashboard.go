package main

import (
	"fmt"
	"io"
	"strings"

	"weatherlux/i18n"
	"weatherlux/models"
)

const hourlyEntries = 8

// renderDashboard writes a text rendition of snap. Values are stored in
// metric units and converted here for display only.
func renderDashboard(w io.Writer, snap *models.Snapshot, settings models.Settings, favorite bool) {
	lang := settings.Language
	units := settings.Units
	t := func(phrase string) string { return i18n.Translate(phrase, lang) }

	cur := snap.Current
	offset := cur.UTCOffset
	isDay := cur.IsDay(snap.FetchedAt)

	star := ""
	if favorite {
		star = " ★"
	}
	fmt.Fprintf(w, "%s %s, %s%s  (%s)\n", i18n.ConditionEmoji(cur.Condition.Code, isDay), cur.Name, cur.Country, star, snap.Coordinate)
	if snap.Degraded() {
		fmt.Fprintf(w, "[%s]\n", t("Offline data"))
	}
	fmt.Fprintf(w, "%s: %s  %s: %s  (%s)\n",
		t("Temperature"), i18n.FormatTemperature(cur.Temperature, units, lang),
		t("Feels Like"), i18n.FormatTemperature(cur.FeelsLike, units, lang),
		t(cur.Condition.Description))
	fmt.Fprintf(w, "%s: %s %s  %s: %.0f%%  %s: %.0f hPa  %s: %.1f km\n",
		t("Wind Speed"), i18n.FormatSpeed(cur.WindSpeed, units, lang), i18n.WindDirection(float64(cur.WindDeg)),
		t("Humidity"), cur.Humidity,
		t("Pressure"), cur.Pressure,
		t("Visibility"), float64(cur.Visibility)/1000)
	fmt.Fprintf(w, "%s: %s  %s: %s\n",
		t("Sunrise"), i18n.FormatClock(cur.Sunrise, offset),
		t("Sunset"), i18n.FormatClock(cur.Sunset, offset))

	aqiLabel, _ := i18n.AirQualityLabel(snap.AirQuality.AQI)
	fmt.Fprintf(w, "%s: %d (%s)  PM2.5 %.1f  PM10 %.1f\n", t("Air Quality Index"), snap.AirQuality.AQI, t(aqiLabel), snap.AirQuality.PM25, snap.AirQuality.PM10)
	fmt.Fprintf(w, "%s: %.1f (%s)  %s: %s %s\n", t("UV Index"), snap.UV.Value, t(snap.UV.Risk), t("Moon Phase"), snap.Moon.Icon, t(snap.Moon.Name))

	fmt.Fprintf(w, "\n%s\n", t("Hourly Forecast"))
	for i, e := range snap.Forecast.Entries {
		if i == hourlyEntries {
			break
		}
		fmt.Fprintf(w, "  %s %s %s  %3.0f%%\n",
			i18n.FormatClock(e.Time, offset),
			i18n.ConditionEmoji(e.Condition.Code, strings.HasSuffix(e.Condition.Icon, "d")),
			i18n.FormatTemperature(e.Temperature, units, lang),
			e.PrecipitationProbability*100)
	}

	if len(snap.Alerts.Items) > 0 {
		fmt.Fprintf(w, "\n%s\n", t("Weather Alerts"))
		for _, a := range snap.Alerts.Items {
			fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(string(a.Severity)), a.Title)
		}
	}
}
