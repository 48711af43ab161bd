package datasource

import (
	"context"
	"strings"

	"weatherlux/models"
)

// MaxSearchResults caps the number of cities returned by a search
const MaxSearchResults = 5

// DefaultCities is the built-in gazetteer used when no geocoding provider answers
var DefaultCities = []models.City{
	{ID: "2643743", Name: "London", Country: "GB", Coordinate: models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}},
	{ID: "5128581", Name: "New York", Country: "US", Coordinate: models.Coordinate{Latitude: 40.7128, Longitude: -74.0060}},
	{ID: "1850147", Name: "Tokyo", Country: "JP", Coordinate: models.Coordinate{Latitude: 35.6762, Longitude: 139.6503}},
	{ID: "2988507", Name: "Paris", Country: "FR", Coordinate: models.Coordinate{Latitude: 48.8566, Longitude: 2.3522}},
	{ID: "2147714", Name: "Sydney", Country: "AU", Coordinate: models.Coordinate{Latitude: -33.8688, Longitude: 151.2093}},
	{ID: "3117735", Name: "Madrid", Country: "ES", Coordinate: models.Coordinate{Latitude: 40.4168, Longitude: -3.7038}},
	{ID: "2950159", Name: "Berlin", Country: "DE", Coordinate: models.Coordinate{Latitude: 52.5200, Longitude: 13.4050}},
}

// Gazetteer searches a fixed list of cities by case-insensitive substring
type Gazetteer struct {
	cities []models.City
}

// NewGazetteer creates a gazetteer over cities, or DefaultCities when none are given
func NewGazetteer(cities ...models.City) *Gazetteer {
	if len(cities) == 0 {
		cities = DefaultCities
	}
	return &Gazetteer{cities: cities}
}

func (g *Gazetteer) Name() string {
	return "Gazetteer"
}

// SearchCities returns up to limit cities whose name contains query, in list order
func (g *Gazetteer) SearchCities(_ context.Context, query string, limit int) ([]models.City, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []models.City{}
	if q == "" {
		return results, nil
	}
	for _, city := range g.cities {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(city.Name), q) {
			results = append(results, city)
		}
	}
	return results, nil
}

var _ CitySearcher = (*Gazetteer)(nil)
