// Package i18n converts units and localizes display strings. Values are
// stored in metric units; conversions here happen only at display time.
package i18n

import (
	"weatherlux/models"
)

const mpsToMph = 2.237

// ConvertTemperature converts between Celsius (metric) and Fahrenheit (imperial).
// Same or unsupported systems return the value unchanged.
func ConvertTemperature(value float64, from, to models.UnitSystem) float64 {
	switch {
	case from == to:
		return value
	case from == models.Metric && to == models.Imperial:
		return value*9/5 + 32
	case from == models.Imperial && to == models.Metric:
		return (value - 32) * 5 / 9
	default:
		return value
	}
}

// ConvertSpeed converts between m/s (metric) and mph (imperial).
func ConvertSpeed(value float64, from, to models.UnitSystem) float64 {
	switch {
	case from == to:
		return value
	case from == models.Metric && to == models.Imperial:
		return value * mpsToMph
	case from == models.Imperial && to == models.Metric:
		return value / mpsToMph
	default:
		return value
	}
}

// TemperatureLabel returns the temperature unit symbol for a system
func TemperatureLabel(units models.UnitSystem) string {
	if units == models.Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedLabel returns the speed unit for a system
func SpeedLabel(units models.UnitSystem) string {
	if units == models.Imperial {
		return "mph"
	}
	return "m/s"
}
