package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlux/models"
)

var madrid = models.Coordinate{Latitude: 40.4168, Longitude: -3.7038}

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestIPLocator(t *testing.T) {
	url := serve(t, http.StatusOK, `{"ip":"203.0.113.9","city":"London","latitude":51.5074,"longitude":-0.1278}`)

	coord, err := NewIPLocator(url).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}, coord)
}

func TestIPLocatorErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", http.StatusForbidden, `{}`, ErrPermissionDenied},
		{"rate limited", http.StatusOK, `{"error":true,"reason":"RateLimited"}`, ErrPositionUnavailable},
		{"server error", http.StatusInternalServerError, ``, ErrPositionUnavailable},
		{"no coordinates", http.StatusOK, `{"ip":"203.0.113.9"}`, ErrPositionUnavailable},
		{"out of range", http.StatusOK, `{"latitude":123,"longitude":0}`, ErrPositionUnavailable},
		{"malformed", http.StatusOK, `<html>`, ErrPositionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIPLocator(serve(t, tt.status, tt.body)).Locate(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveFallsBackOnAnyError(t *testing.T) {
	for _, cause := range []error{ErrPermissionDenied, ErrPositionUnavailable, ErrTimeout} {
		coord, err := Resolve(context.Background(), StaticLocator{Err: cause}, madrid, time.Second)
		assert.Equal(t, madrid, coord)
		assert.ErrorIs(t, err, cause)
	}

	coord, err := Resolve(context.Background(), nil, madrid, time.Second)
	assert.Equal(t, madrid, coord)
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestResolveSuccess(t *testing.T) {
	tokyo := models.Coordinate{Latitude: 35.6762, Longitude: 139.6503}
	coord, err := Resolve(context.Background(), StaticLocator{Coordinate: tokyo}, madrid, time.Second)
	require.NoError(t, err)
	assert.Equal(t, tokyo, coord)
}

func TestResolveTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	coord, err := Resolve(context.Background(), NewIPLocator(server.URL), madrid, 50*time.Millisecond)
	assert.Equal(t, madrid, coord)
	assert.ErrorIs(t, err, ErrTimeout)
}
