// Package feedalerts turns an RSS or Atom warning feed into weather alerts.
package feedalerts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"weatherlux/datasource"
	"weatherlux/models"
)

// FeedSource reads alerts from a regional RSS/Atom feed. The feed is not
// filtered by coordinate; configure one feed per region.
type FeedSource struct {
	url      string
	validFor time.Duration
	client   *http.Client
	now      func() time.Time
}

// NewFeedSource creates a source for feedURL. Items without an explicit
// end are considered valid for validFor after publication.
func NewFeedSource(feedURL string, validFor time.Duration) *FeedSource {
	if validFor <= 0 {
		validFor = 24 * time.Hour
	}
	return &FeedSource{
		url:      feedURL,
		validFor: validFor,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

func (f *FeedSource) Name() string {
	return "AlertFeed"
}

// Alerts fetches the feed and returns the items that are still valid
func (f *FeedSource) Alerts(ctx context.Context, _ models.Coordinate) ([]models.WeatherAlert, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.url, nil)
	if err != nil {
		return nil, datasource.NewNetworkError(f.Name(), "alerts", fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, datasource.NewNetworkError(f.Name(), "alerts", fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, datasource.NewNetworkError(f.Name(), "alerts", fmt.Errorf("failed to read response body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, datasource.NewUpstreamError(f.Name(), "alerts", resp.StatusCode, body)
	}

	// gofeed parsers keep state while parsing; one per request
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, datasource.NewMalformedError(f.Name(), "alerts", fmt.Errorf("failed to parse feed: %w", err))
	}

	now := f.now()
	alerts := []models.WeatherAlert{}
	for _, item := range feed.Items {
		alert := f.toAlert(item, now)
		if alert.End.Before(now) {
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func (f *FeedSource) toAlert(item *gofeed.Item, now time.Time) models.WeatherAlert {
	start := now
	switch {
	case item.PublishedParsed != nil:
		start = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		start = *item.UpdatedParsed
	}

	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = strings.TrimSpace(item.Content)
	}

	id := item.GUID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(f.url+"|"+item.Link+"|"+item.Title)).String()
	}

	tags := []string{}
	for _, c := range item.Categories {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			tags = append(tags, c)
		}
	}

	return models.WeatherAlert{
		ID:          id,
		Title:       strings.TrimSpace(item.Title),
		Description: description,
		Severity:    Severity(item.Title + " " + description + " " + strings.Join(item.Categories, " ")),
		Start:       start.UTC(),
		End:         start.Add(f.validFor).UTC(),
		Tags:        tags,
	}
}

// Severity infers the alert level from keywords and warning colours.
// Matching is per word, so "reduced" does not read as red.
func Severity(text string) models.Severity {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !unicode.IsLetter(r) }) {
		words[w] = true
	}
	switch {
	case words["extreme"] || words["red"]:
		return models.SeverityExtreme
	case words["severe"] || words["orange"] || words["amber"]:
		return models.SeveritySevere
	case words["moderate"] || words["yellow"]:
		return models.SeverityModerate
	default:
		return models.SeverityMinor
	}
}

var _ datasource.AlertSource = (*FeedSource)(nil)
