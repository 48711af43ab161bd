package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"weatherlux/datasource"
	"weatherlux/logger"
	"weatherlux/models"
)

const (
	// FavoritesKey is the key the favorites list is stored under
	FavoritesKey = "weatherlux-favorites"

	// FavoriteTolerance is the per-axis distance in degrees under which two
	// coordinates count as the same favorite
	FavoriteTolerance = 0.01
)

// FavoritesStore owns the list of saved locations
type FavoritesStore struct {
	kv        KV
	now       func() time.Time
	mu        sync.RWMutex
	favorites []models.FavoriteLocation
}

func NewFavoritesStore(kv KV) *FavoritesStore {
	return &FavoritesStore{kv: kv, now: time.Now, favorites: []models.FavoriteLocation{}}
}

// Load replaces the in-memory list with the stored one
func (s *FavoritesStore) Load(ctx context.Context) ([]models.FavoriteLocation, error) {
	raw, ok, err := s.kv.Get(ctx, FavoritesKey)
	if err != nil {
		return s.List(), err
	}

	loaded := []models.FavoriteLocation{}
	if ok {
		if err := json.Unmarshal(raw, &loaded); err != nil {
			logger.Warnf("ignoring unreadable favorites: %v", err)
			loaded = []models.FavoriteLocation{}
		}
	}

	s.mu.Lock()
	s.favorites = loaded
	s.mu.Unlock()
	return s.List(), nil
}

// List returns the favorites in insertion order
func (s *FavoritesStore) List() []models.FavoriteLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FavoriteLocation{}, s.favorites...)
}

// Find returns the favorite near coord
func (s *FavoritesStore) Find(coord models.Coordinate) (models.FavoriteLocation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(coord)
}

func (s *FavoritesStore) find(coord models.Coordinate) (models.FavoriteLocation, bool) {
	for _, f := range s.favorites {
		if f.Coordinate.Near(coord, FavoriteTolerance) {
			return f, true
		}
	}
	return models.FavoriteLocation{}, false
}

// IsFavorite reports whether coord lies within the tolerance of a saved location
func (s *FavoritesStore) IsFavorite(coord models.Coordinate) bool {
	_, ok := s.Find(coord)
	return ok
}

// Add saves a location. Adding a coordinate that is already a favorite
// returns the existing entry and added=false.
func (s *FavoritesStore) Add(ctx context.Context, name, country string, coord models.Coordinate) (fav models.FavoriteLocation, added bool, err error) {
	if err := coord.Validate(); err != nil {
		return models.FavoriteLocation{}, false, datasource.NewInvalidInput("add favorite", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.find(coord); ok {
		return existing, false, nil
	}

	fav = models.FavoriteLocation{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Country:    strings.TrimSpace(country),
		Coordinate: coord,
		AddedAt:    s.now().UTC(),
	}
	next := append(append([]models.FavoriteLocation{}, s.favorites...), fav)
	if err := s.write(ctx, next); err != nil {
		return models.FavoriteLocation{}, false, err
	}
	s.favorites = next
	return fav, true, nil
}

// Remove deletes the favorite with id; removing an unknown id is not an error
func (s *FavoritesStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.FavoriteLocation, 0, len(s.favorites))
	for _, f := range s.favorites {
		if f.ID != id {
			next = append(next, f)
		}
	}
	if len(next) == len(s.favorites) {
		return false, nil
	}
	if err := s.write(ctx, next); err != nil {
		return false, err
	}
	s.favorites = next
	return true, nil
}

// Toggle removes the favorite near coord if there is one, otherwise adds it.
// It reports whether the location is a favorite afterwards.
func (s *FavoritesStore) Toggle(ctx context.Context, name, country string, coord models.Coordinate) (bool, error) {
	if existing, ok := s.Find(coord); ok {
		if _, err := s.Remove(ctx, existing.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	_, _, err := s.Add(ctx, name, country, coord)
	return err == nil, err
}

func (s *FavoritesStore) write(ctx context.Context, favorites []models.FavoriteLocation) error {
	raw, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	return s.kv.Set(ctx, FavoritesKey, raw)
}
