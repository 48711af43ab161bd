package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"weatherlux/cache"
	"weatherlux/datasource"
	"weatherlux/models"
	"weatherlux/providers/openweathermap"
	"weatherlux/providers/weatherapi"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== Running Cache Test ===")
	fmt.Println("This will demonstrate how caching works with multiple requests")
	fmt.Println("The test will take about 20 seconds to complete...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}

	// Get API keys from environment variables
	openWeatherMapKey := os.Getenv("OPENWEATHERMAP_API_KEY")
	weatherAPIKey := os.Getenv("WEATHERAPI_KEY")

	// Set a short cache duration for demonstration purposes
	cacheDuration := 15 * time.Second

	var sources datasource.Sources
	if openWeatherMapKey != "" {
		sources = sources.Append(datasource.SourcesOf(openweathermap.NewOpenWeatherMapSource(openWeatherMapKey)))
		fmt.Println("Added OpenWeatherMap source")
	}
	if weatherAPIKey != "" {
		sources = sources.Append(datasource.SourcesOf(weatherapi.NewWeatherAPISource(weatherAPIKey)))
		fmt.Println("Added WeatherAPI source")
	}
	if sources.Empty() {
		log.Fatal("No API keys provided")
	}
	sources = cache.Wrap(sources, cacheDuration)

	ctx := context.Background()
	locations := []models.Coordinate{
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 40.7128, Longitude: -74.0060},
	}

	fmt.Println("\n*** First Request - Should be cache misses ***")
	makeRequests(ctx, sources, locations)

	fmt.Println("\n*** Second Request - Should use cached data ***")
	makeRequests(ctx, sources, locations)

	fmt.Println("\nWaiting for cache to expire (15 seconds)...")
	time.Sleep(cacheDuration + time.Second)

	fmt.Println("\n*** After Expiry - Should be cache misses again ***")
	makeRequests(ctx, sources, locations)

	hits, misses := cache.Stats(sources)
	fmt.Printf("\nTotal: %d cache hits, %d cache misses\n", hits, misses)
	fmt.Println("\n=== Cache Test Complete ===")
}

func makeRequests(ctx context.Context, sources datasource.Sources, locations []models.Coordinate) {
	for _, source := range sources.Current {
		for _, location := range locations {
			data, err := source.CurrentConditions(ctx, location)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			fmt.Printf("Got data from %s for %s: %.1f°C\n", source.Name(), data.Name, data.Temperature)
		}
	}
}
