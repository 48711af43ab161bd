package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherlux/datasource"
	"weatherlux/models"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	sqlite, err := NewSQLiteKV(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": sqlite,
	}
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "k", []byte(`{"a":1}`)))
			require.NoError(t, kv.Set(ctx, "k", []byte(`{"a":2}`)))

			value, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":2}`, string(value))
		})
	}
}

func TestSQLiteKVPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, SettingsKey, []byte(`{"units":"imperial"}`)))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()

	settings, err := NewSettingsStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Imperial, settings.Units)
}

func TestRedisKVUnreachable(t *testing.T) {
	kv := NewRedisKV("127.0.0.1:1", 0)
	defer kv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, _, err := kv.Get(ctx, SettingsKey)
	assert.Error(t, err)
	assert.Error(t, kv.Set(ctx, SettingsKey, []byte("{}")))
}

func TestOpen(t *testing.T) {
	kv, err := Open(datasource.PreferencesConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open(datasource.PreferencesConfig{Backend: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	kv.Close()

	kv, err = Open(datasource.PreferencesConfig{Backend: "redis", RedisAddr: "127.0.0.1:1"})
	require.NoError(t, err)
	assert.IsType(t, &RedisKV{}, kv)
	kv.Close()

	_, err = Open(datasource.PreferencesConfig{Backend: "etcd"})
	assert.Error(t, err)
}

func TestSettingsLoadMergesDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, SettingsKey, []byte(`{"units":"imperial","language":"fr"}`)))

	s := NewSettingsStore(kv)
	settings, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.Imperial, settings.Units)
	assert.Equal(t, "fr", settings.Language)
	assert.True(t, settings.Notifications)
	assert.True(t, settings.AutoLocation)
	assert.Equal(t, models.ThemeAuto, settings.Theme)
	assert.Equal(t, settings, s.Get())
}

func TestSettingsLoadEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSettingsStore(kv)

	settings, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	require.NoError(t, kv.Set(ctx, SettingsKey, []byte(`not json`)))
	settings, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	require.NoError(t, kv.Set(ctx, SettingsKey, []byte(`{"theme":"neon"}`)))
	settings, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestSettingsLoadKeepsValidFields(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, SettingsKey, []byte(`{"units":"imperial","language":"it","theme":"dark","notifications":false}`)))

	settings, err := NewSettingsStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Imperial, settings.Units)
	assert.Equal(t, "es", settings.Language)
	assert.Equal(t, models.ThemeDark, settings.Theme)
	assert.False(t, settings.Notifications)
	assert.True(t, settings.AutoLocation)
}

func TestSettingsUpdate(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewSettingsStore(kv)

	dark := models.ThemeDark
	updated, err := s.Update(ctx, models.SettingsPatch{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, updated.Theme)
	assert.Equal(t, "es", updated.Language)

	reloaded, err := NewSettingsStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, reloaded)

	kelvin := models.UnitSystem("kelvin")
	_, err = s.Update(ctx, models.SettingsPatch{Units: &kelvin})
	require.Error(t, err)
	assert.True(t, datasource.IsInvalidInput(err))
	assert.Equal(t, models.Metric, s.Get().Units)
}

func TestSettingsSave(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, NewSettingsStore(kv).Save(ctx))

	_, ok, err := kv.Get(ctx, SettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

var madrid = models.Coordinate{Latitude: 40.4168, Longitude: -3.7038}

func TestFavoritesTolerance(t *testing.T) {
	ctx := context.Background()
	s := NewFavoritesStore(NewMemoryKV())

	_, added, err := s.Add(ctx, "Madrid", "ES", madrid)
	require.NoError(t, err)
	assert.True(t, added)

	assert.True(t, s.IsFavorite(madrid))
	assert.True(t, s.IsFavorite(models.Coordinate{Latitude: 40.4218, Longitude: -3.6988}))
	assert.False(t, s.IsFavorite(models.Coordinate{Latitude: 40.4368, Longitude: -3.7038}))
	assert.False(t, s.IsFavorite(models.Coordinate{Latitude: 40.4168, Longitude: -3.7238}))
}

func TestFavoritesAddDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := NewFavoritesStore(NewMemoryKV())

	first, added, err := s.Add(ctx, "Madrid", "ES", madrid)
	require.NoError(t, err)
	require.True(t, added)
	assert.Len(t, first.ID, 36)

	again, added, err := s.Add(ctx, "Madrid centro", "ES", models.Coordinate{Latitude: 40.4170, Longitude: -3.7040})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, s.List(), 1)

	_, _, err = s.Add(ctx, "Nowhere", "", models.Coordinate{Latitude: 100})
	assert.True(t, datasource.IsInvalidInput(err))
}

func TestFavoritesPersistAndRemove(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewFavoritesStore(kv)

	madridFav, _, err := s.Add(ctx, "Madrid", "ES", madrid)
	require.NoError(t, err)
	_, _, err = s.Add(ctx, "Tokyo", "JP", models.Coordinate{Latitude: 35.6762, Longitude: 139.6503})
	require.NoError(t, err)

	reloaded := NewFavoritesStore(kv)
	list, err := reloaded.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Madrid", list[0].Name)
	assert.Equal(t, "Tokyo", list[1].Name)

	removed, err := reloaded.Remove(ctx, madridFav.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = reloaded.Remove(ctx, madridFav.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	fav, ok := reloaded.Find(models.Coordinate{Latitude: 35.68, Longitude: 139.65})
	require.True(t, ok)
	assert.Equal(t, "Tokyo", fav.Name)
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	s := NewFavoritesStore(NewMemoryKV())

	on, err := s.Toggle(ctx, "Madrid", "ES", madrid)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(ctx, "Madrid", "ES", madrid)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, s.List())
}

func TestFavoritesLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, FavoritesKey, []byte(`{"not":"a list"}`)))

	list, err := NewFavoritesStore(kv).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
