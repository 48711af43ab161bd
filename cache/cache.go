// Package cache adds a time-bounded memo in front of weather sources.
package cache

import (
	"sync"
	"time"

	"weatherlux/datasource"
	"weatherlux/logger"
)

// store keeps successful results per key until they are older than ttl
type store[T any] struct {
	mutex          sync.RWMutex
	entries        map[string]cacheEntry[T]
	cacheDuration  time.Duration
	now            func() time.Time
	cacheHitCount  int
	cacheMissCount int
}

// cacheEntry represents a cached result with its timestamp
type cacheEntry[T any] struct {
	Data      T
	Timestamp time.Time
}

func newStore[T any](ttl time.Duration, now func() time.Time) *store[T] {
	return &store[T]{
		entries:       make(map[string]cacheEntry[T]),
		cacheDuration: ttl,
		now:           now,
	}
}

// get returns the cached value for key, or calls fetch and remembers the
// result when it succeeds. Errors are never cached.
func (s *store[T]) get(name, key string, fetch func() (T, error)) (T, error) {
	s.mutex.RLock()
	entry, found := s.entries[key]
	s.mutex.RUnlock()

	now := s.now()
	if found && now.Sub(entry.Timestamp) < s.cacheDuration {
		s.mutex.Lock()
		s.cacheHitCount++
		s.mutex.Unlock()

		logger.Debugf("cache HIT for %s from %s (age: %s)", key, name, now.Sub(entry.Timestamp).Round(time.Second))
		return entry.Data, nil
	}

	s.mutex.Lock()
	s.cacheMissCount++
	s.mutex.Unlock()

	logger.Debugf("cache MISS for %s from %s, fetching fresh data", key, name)

	data, err := fetch()
	if err != nil {
		return data, err
	}

	s.mutex.Lock()
	s.entries[key] = cacheEntry[T]{Data: data, Timestamp: s.now()}
	s.mutex.Unlock()

	return data, nil
}

// CacheStats returns statistics about cache hits and misses
func (s *store[T]) CacheStats() (hits, misses int) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.cacheHitCount, s.cacheMissCount
}

// Option configures Wrap
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for expiry checks
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func cachedName(name string) string {
	return name + " [Cached]"
}

// Wrap puts a cache with the given ttl in front of every source in s. Each
// source gets its own cache; a zero or negative ttl returns s unchanged.
func Wrap(s datasource.Sources, ttl time.Duration, opts ...Option) datasource.Sources {
	if ttl <= 0 {
		return s
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	var out datasource.Sources
	for _, src := range s.Current {
		out.Current = append(out.Current, &CachedCurrentSource{source: src, store: newStore[currentResult](ttl, o.now)})
	}
	for _, src := range s.Forecast {
		out.Forecast = append(out.Forecast, NewCachedForecastSource(src, ttl, o.now))
	}
	for _, src := range s.AirQuality {
		out.AirQuality = append(out.AirQuality, &CachedAirQualitySource{source: src, store: newStore[airQualityResult](ttl, o.now)})
	}
	for _, src := range s.Alerts {
		out.Alerts = append(out.Alerts, &CachedAlertSource{source: src, store: newStore[alertsResult](ttl, o.now)})
	}
	for _, src := range s.UV {
		out.UV = append(out.UV, &CachedUVSource{source: src, store: newStore[float64](ttl, o.now)})
	}
	for _, src := range s.Search {
		out.Search = append(out.Search, &CachedCitySearcher{source: src, store: newStore[citiesResult](ttl, o.now)})
	}
	return out
}

// Stats sums hits and misses over every cached source in s
func Stats(s datasource.Sources) (hits, misses int) {
	add := func(v interface{}) {
		if c, ok := v.(interface{ CacheStats() (int, int) }); ok {
			h, m := c.CacheStats()
			hits += h
			misses += m
		}
	}
	for _, v := range s.Current {
		add(v)
	}
	for _, v := range s.Forecast {
		add(v)
	}
	for _, v := range s.AirQuality {
		add(v)
	}
	for _, v := range s.Alerts {
		add(v)
	}
	for _, v := range s.UV {
		add(v)
	}
	for _, v := range s.Search {
		add(v)
	}
	return hits, misses
}
