// Package geo finds the user's approximate position.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"weatherlux/logger"
	"weatherlux/models"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
)

// DefaultTimeout bounds a single lookup
const DefaultTimeout = 10 * time.Second

// Locator returns the current position
type Locator interface {
	Locate(ctx context.Context) (models.Coordinate, error)
}

// StaticLocator always answers with the same position or error
type StaticLocator struct {
	Coordinate models.Coordinate
	Err        error
}

func (l StaticLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	if l.Err != nil {
		return models.Coordinate{}, l.Err
	}
	return l.Coordinate, nil
}

// IPLocator looks up the position of the public IP address through a JSON
// service such as ipapi.co
type IPLocator struct {
	url    string
	client *http.Client
}

func NewIPLocator(url string) *IPLocator {
	return &IPLocator{url: url, client: &http.Client{}}
}

type ipResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

func (l *IPLocator) Locate(ctx context.Context) (models.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", l.url, nil)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Coordinate{}, ErrTimeout
		}
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.Coordinate{}, fmt.Errorf("%w: status %d", ErrPermissionDenied, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return models.Coordinate{}, fmt.Errorf("%w: status %d", ErrPositionUnavailable, resp.StatusCode)
	}

	var r ipResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	if r.Error {
		return models.Coordinate{}, fmt.Errorf("%w: %s", ErrPositionUnavailable, r.Reason)
	}
	if r.Latitude == nil || r.Longitude == nil {
		return models.Coordinate{}, fmt.Errorf("%w: response has no coordinates", ErrPositionUnavailable)
	}

	coord := models.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
	if err := coord.Validate(); err != nil {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	return coord, nil
}

// Resolve asks locator for the position, waiting at most timeout. Any
// failure yields fallback; the returned error only says why it was used.
func Resolve(ctx context.Context, locator Locator, fallback models.Coordinate, timeout time.Duration) (models.Coordinate, error) {
	if locator == nil {
		return fallback, fmt.Errorf("%w: no locator configured", ErrPositionUnavailable)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	lookupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	coord, err := locator.Locate(lookupCtx)
	if err == nil {
		return coord, nil
	}
	if errors.Is(lookupCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = ErrTimeout
	}
	logger.Warnf("geolocation failed (%v), using %s", err, fallback)
	return fallback, err
}
