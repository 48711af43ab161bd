package datasource

import "weatherlux/models"

// UVRisk returns the WHO exposure category and colour for a UV index value
func UVRisk(value float64) (risk, color string) {
	switch {
	case value < 3:
		return "Low", "green"
	case value < 6:
		return "Moderate", "yellow"
	case value < 8:
		return "High", "orange"
	case value < 11:
		return "Very High", "red"
	default:
		return "Extreme", "violet"
	}
}

func newUVIndex(value float64, provider string, source models.Source) models.UVIndex {
	if value < 0 {
		value = 0
	}
	risk, color := UVRisk(value)
	return models.UVIndex{Value: value, Risk: risk, Color: color, Provider: provider, Source: source}
}
