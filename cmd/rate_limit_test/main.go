// Command rate_limit_test shows how one provider budget is shared by every
// facet and how the client degrades when the budget runs out.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"weatherlux/datasource"
	"weatherlux/logger"
	"weatherlux/models"
)

// mockProvider serves current conditions and forecasts with a fixed latency
type mockProvider struct {
	latency  time.Duration
	current  atomic.Int32
	forecast atomic.Int32
}

func (m *mockProvider) Name() string { return "MockProvider" }

func (m *mockProvider) sleep(ctx context.Context) error {
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockProvider) CurrentConditions(ctx context.Context, coord models.Coordinate) (models.CurrentConditions, error) {
	m.current.Add(1)
	if err := m.sleep(ctx); err != nil {
		return models.CurrentConditions{}, err
	}
	return models.CurrentConditions{Name: "Mocked", Coordinate: coord, Temperature: 18.5}, nil
}

func (m *mockProvider) Forecast(ctx context.Context, coord models.Coordinate) (models.Forecast, error) {
	m.forecast.Add(1)
	if err := m.sleep(ctx); err != nil {
		return models.Forecast{}, err
	}
	return models.Forecast{Entries: []models.ForecastEntry{{Time: time.Now().Add(time.Hour), Temperature: 19}}}, nil
}

var london = models.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

func main() {
	rps := flag.Float64("rps", 2.0, "Provider budget in requests per second")
	burst := flag.Int("burst", 2, "Maximum burst size")
	requests := flag.Int("requests", 12, "Requests per phase, alternating current and forecast")
	timeout := flag.Duration("timeout", 300*time.Millisecond, "Client request timeout for the fallback phase")
	flag.Parse()

	logger.SetLevel("ERROR")

	fmt.Printf("Provider budget: %.2f req/s, burst %d\n", *rps, *burst)
	sharedBudget(*rps, *burst, *requests)
	clientFallback(*rps, *burst, *requests, *timeout)
}

// sharedBudget alternates current and forecast calls from concurrent
// workers. Both facets draw from one limiter, so the combined rate stays
// at rps rather than rps per facet.
func sharedBudget(rps float64, burst, requests int) {
	fmt.Println("\n*** Phase 1: one budget for all facets ***")

	mock := &mockProvider{latency: 50 * time.Millisecond}
	sources := datasource.RateLimited(datasource.SourcesOf(mock), rps, burst)
	current, forecast := sources.Current[0], sources.Forecast[0]

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			name := current.Name()
			if i%2 == 0 {
				_, err = current.CurrentConditions(ctx, london)
			} else {
				name = forecast.Name()
				_, err = forecast.Forecast(ctx, london)
			}
			if err != nil {
				fmt.Printf("%6s  %-35s failed: %v\n", time.Since(start).Round(10*time.Millisecond), name, err)
				return
			}
			fmt.Printf("%6s  %s\n", time.Since(start).Round(10*time.Millisecond), name)
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(start)
	expected := time.Duration(float64(requests-burst) / rps * float64(time.Second))
	fmt.Printf("current: %d, forecast: %d, elapsed %.2fs (shared budget needs at least %.2fs)\n",
		mock.current.Load(), mock.forecast.Load(), elapsed.Seconds(), expected.Seconds())
	if elapsed < expected-100*time.Millisecond {
		fmt.Println("⚠️ WARNING: facets are not sharing the provider budget")
	} else {
		fmt.Println("✅ Both facets drew from the same budget")
	}
}

// clientFallback sends a burst through the client. Once the limiter would
// make a caller wait past the request timeout, the client serves fallback
// data instead of blocking.
func clientFallback(rps float64, burst, requests int, timeout time.Duration) {
	fmt.Println("\n*** Phase 2: client fallback when the budget is exhausted ***")

	mock := &mockProvider{latency: 20 * time.Millisecond}
	client := datasource.NewClient(
		datasource.RateLimited(datasource.SourcesOf(mock), rps, burst),
		datasource.WithTimeout(timeout),
	)

	ctx := context.Background()
	counts := map[models.Source]int{}
	for i := 0; i < requests; i++ {
		cur, err := client.CurrentConditions(ctx, london)
		if err != nil {
			fmt.Printf("request %2d failed: %v\n", i, err)
			continue
		}
		counts[cur.Source]++
		fmt.Printf("request %2d: %-8s %s %.1f°C\n", i, cur.Source, cur.Name, cur.Temperature)
	}
	fmt.Printf("live: %d, fallback: %d, provider calls: %d\n",
		counts[models.SourceLive], counts[models.SourceFallback], mock.current.Load())
}
