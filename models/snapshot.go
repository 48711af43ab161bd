package models

import "time"

// Snapshot aggregates every weather facet for one coordinate and fetch batch.
// A snapshot is replaced as a whole, never merged.
type Snapshot struct {
	Coordinate Coordinate        `json:"coordinate"`
	FetchedAt  time.Time         `json:"fetchedAt"`
	Current    CurrentConditions `json:"current"`
	Forecast   Forecast          `json:"forecast"`
	AirQuality AirQualityReading `json:"airQuality"`
	Alerts     Alerts            `json:"alerts"`
	UV         UVIndex           `json:"uv"`
	Moon       MoonPhase         `json:"moon"`
}

// Degraded reports whether any facet was substituted with fallback data
func (s *Snapshot) Degraded() bool {
	for _, src := range []Source{s.Current.Source, s.Forecast.Source, s.AirQuality.Source, s.Alerts.Source, s.UV.Source} {
		if src == SourceFallback {
			return true
		}
	}
	return false
}
