package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidCoordinate is returned for non-finite or out-of-range coordinates.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a WGS84 position in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Validate checks that both fields are finite and inside their ranges
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: non-finite value (%v, %v)", ErrInvalidCoordinate, c.Latitude, c.Longitude)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// Near reports whether other lies strictly within tolerance degrees on both axes
func (c Coordinate) Near(other Coordinate, tolerance float64) bool {
	return math.Abs(c.Latitude-other.Latitude) < tolerance &&
		math.Abs(c.Longitude-other.Longitude) < tolerance
}

// Key rounds the coordinate to two decimals (about 1km) for use as a map key
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.2f,%.2f", c.Latitude, c.Longitude)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// City is a geocoding result
type City struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Region     string     `json:"region,omitempty"`
	Country    string     `json:"country"`
	Coordinate Coordinate `json:"coordinate"`
}

// FavoriteLocation is a location saved by the user
type FavoriteLocation struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Country    string     `json:"country"`
	Coordinate Coordinate `json:"coordinate"`
	AddedAt    time.Time  `json:"addedAt"`
}
