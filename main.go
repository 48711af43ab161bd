package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weatherlux/cache"
	"weatherlux/collector"
	"weatherlux/datasource"
	"weatherlux/geo"
	"weatherlux/logger"
	"weatherlux/models"
	"weatherlux/providers/feedalerts"
	"weatherlux/providers/openweathermap"
	"weatherlux/providers/weatherapi"
	"weatherlux/store"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	// Parse command line arguments
	configFile := flag.String("config", "config.yaml", "Path to configuration file (.yaml or .json)")
	lat := flag.Float64("lat", 0, "Latitude to show (requires -lon)")
	lon := flag.Float64("lon", 0, "Longitude to show (requires -lat)")
	city := flag.String("city", "", "City name to search for")
	refresh := flag.Duration("refresh", 0, "Refresh interval (defaults to the configured value)")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	toggleFavorite := flag.Bool("favorite", false, "Toggle the shown location in the favorites list")
	once := flag.Bool("once", false, "Print the dashboard once and exit")
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	// Load configuration
	config, err := datasource.LoadConfig(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(config.LogLevel)

	sources := buildSources(config, *enableRateLimiting)
	if sources.Empty() {
		logger.Warnf("no weather providers enabled, every facet will use fallback data")
	}

	home := models.City{
		Name:       config.DefaultLocation.Name,
		Country:    config.DefaultLocation.Country,
		Coordinate: config.DefaultLocation.Coordinate(),
	}
	client := datasource.NewClient(sources,
		datasource.WithTimeout(config.RequestTimeout()),
		datasource.WithFallback(datasource.NewFallback(home, config.FallbackSeed)),
	)

	kv, err := store.Open(config.Preferences)
	if err != nil {
		logger.Fatalf("Failed to open preferences: %v", err)
	}
	defer kv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settingsStore := store.NewSettingsStore(kv)
	settings, err := settingsStore.Load(ctx)
	if err != nil {
		logger.Warnf("using default settings: %v", err)
	}
	favorites := store.NewFavoritesStore(kv)
	if _, err := favorites.Load(ctx); err != nil {
		logger.Warnf("favorites unavailable: %v", err)
	}

	coord := chooseCoordinate(ctx, client, config, settings, *city, *lat, *lon, explicit["lat"] && explicit["lon"])

	coll := collector.New(client)
	coll.OnChange(func(s collector.State) {
		if s.Loading || s.Snapshot == nil {
			return
		}
		renderDashboard(os.Stdout, s.Snapshot, settingsStore.Get(), favorites.IsFavorite(s.Snapshot.Coordinate))
	})

	if err := coll.SetCoordinate(ctx, coord); err != nil {
		logger.Fatalf("Failed to load weather for %s: %v", coord, err)
	}

	if *toggleFavorite {
		cur := coll.State().Snapshot.Current
		on, err := favorites.Toggle(ctx, cur.Name, cur.Country, coord)
		if err != nil {
			logger.Errorf("failed to update favorites: %v", err)
		} else {
			logger.Infof("%s favorite: %t", cur.Name, on)
		}
	}

	if *once {
		return
	}

	interval := config.RefreshInterval()
	if *refresh > 0 {
		interval = *refresh
	}
	stop := coll.Watch(ctx, interval)
	logger.Infof("refreshing every %s, press Ctrl+C to quit", interval)

	// Wait for shutdown signal
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownChan
	logger.Infof("shutting down due to %s signal", sig)

	stop()
	hits, misses := cache.Stats(sources)
	logger.Infof("cache hits: %d, misses: %d", hits, misses)
}

// buildSources creates the configured providers in tier order: WeatherAPI,
// then OpenWeatherMap, then the alert feed.
func buildSources(config *datasource.Config, rateLimit bool) datasource.Sources {
	var sources datasource.Sources

	add := func(p interface{}, pc datasource.ProviderConfig) {
		s := datasource.SourcesOf(p)
		if rateLimit && pc.RateLimit > 0 {
			s = datasource.RateLimited(s, pc.RateLimit, pc.Burst)
		}
		sources = sources.Append(cache.Wrap(s, config.CacheTTL()))
	}

	if config.WeatherAPI.Enabled {
		var opts []weatherapi.Option
		if config.WeatherAPI.BaseURL != "" {
			opts = append(opts, weatherapi.WithBaseURL(config.WeatherAPI.BaseURL))
		}
		add(weatherapi.NewWeatherAPISource(config.WeatherAPI.APIKey, opts...), config.WeatherAPI)
		logger.Infof("WeatherAPI enabled (%.2f req/s)", config.WeatherAPI.RateLimit)
	}

	if config.OpenWeatherMap.Enabled {
		var opts []openweathermap.Option
		if config.OpenWeatherMap.BaseURL != "" {
			opts = append(opts, openweathermap.WithBaseURL(config.OpenWeatherMap.BaseURL))
		}
		add(openweathermap.NewOpenWeatherMapSource(config.OpenWeatherMap.APIKey, opts...), config.OpenWeatherMap)
		logger.Infof("OpenWeatherMap enabled (%.2f req/s)", config.OpenWeatherMap.RateLimit)
	}

	if config.AlertFeed.Enabled {
		feed := feedalerts.NewFeedSource(config.AlertFeed.URL, time.Duration(config.AlertFeed.ValidHours)*time.Hour)
		sources = sources.Append(cache.Wrap(datasource.SourcesOf(feed), config.CacheTTL()))
		logger.Infof("alert feed enabled: %s", config.AlertFeed.URL)
	}

	return sources
}

// chooseCoordinate picks the location to show: explicit coordinates, then a
// searched city, then geolocation, then the configured default.
func chooseCoordinate(ctx context.Context, client *datasource.Client, config *datasource.Config, settings models.Settings, city string, lat, lon float64, haveCoords bool) models.Coordinate {
	fallback := config.DefaultLocation.Coordinate()

	if haveCoords {
		return models.Coordinate{Latitude: lat, Longitude: lon}
	}

	if city != "" {
		cities, err := client.SearchCities(ctx, city)
		if err != nil {
			logger.Warnf("city search failed: %v", err)
		}
		if len(cities) > 0 {
			logger.Infof("showing %s, %s", cities[0].Name, cities[0].Country)
			return cities[0].Coordinate
		}
		logger.Warnf("no city matches %q, using %s", city, config.DefaultLocation.Name)
		return fallback
	}

	if settings.AutoLocation && config.Geolocation.Enabled {
		coord, _ := geo.Resolve(ctx, geo.NewIPLocator(config.Geolocation.URL), fallback,
			time.Duration(config.Geolocation.TimeoutSeconds)*time.Second)
		return coord
	}

	return fallback
}
