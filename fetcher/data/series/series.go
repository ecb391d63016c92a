package seriesfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"gridstats/fetcher/cache"
	"gridstats/fetcher/requests"
	"gridstats/pkg/config"
	"gridstats/pkg/metrics"
	"net/http"
	"time"
)

// SeriesGame is one game entry known to the live-state feed.
type SeriesGame struct {
	Id             string `json:"id"`
	SequenceNumber int    `json:"sequenceNumber"`
	Started        bool   `json:"started"`
	Finished       bool   `json:"finished"`
}

const seriesStateQuery = `
	query GetSeriesState($seriesId: ID!) {
		seriesState(id: $seriesId) {
			games {
				id
				sequenceNumber
				started
				finished
			}
		}
	}`

// GraphQL envelope of the series state response.
type seriesStateResponse struct {
	Data struct {
		SeriesState struct {
			Games []SeriesGame `json:"games"`
		} `json:"seriesState"`
	} `json:"data"`
}

// The series directory fetcher with its cache and endpoint.
type Fetcher struct {
	cache    *cache.TTLCache
	endpoint string
}

// FetcherDeps is the dependency list for the series fetcher.
type FetcherDeps struct {
	Cache *cache.TTLCache

	// Endpoint overrides the configured live-state URL. Used on tests.
	Endpoint string
}

// NewFetcher creates a series directory fetcher.
func NewFetcher(deps *FetcherDeps) *Fetcher {
	endpoint := deps.Endpoint
	if endpoint == "" {
		endpoint = config.Grid.LiveURL
	}

	return &Fetcher{
		cache:    deps.Cache,
		endpoint: endpoint,
	}
}

// GamesBySeries returns the ordered list of games for the series.
// Completion is not filtered here, callers decide what to process.
func (f *Fetcher) GamesBySeries(ctx context.Context, seriesId string) ([]SeriesGame, error) {
	key := "games_" + seriesId
	if cached, found := f.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues("series_games").Inc()
		return cached.([]SeriesGame), nil
	}
	metrics.CacheMisses.WithLabelValues("series_games").Inc()

	start := time.Now()
	metrics.FetchRequests.WithLabelValues("live-state").Inc()

	resp, err := requests.GraphQLRequest(ctx, f.endpoint, seriesStateQuery, map[string]any{
		"seriesId": seriesId,
	})
	if err != nil {
		metrics.FetchFailures.WithLabelValues("live-state").Inc()
		return nil, fmt.Errorf("live-state request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues("live-state").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.FetchFailures.WithLabelValues("live-state").Inc()
		return nil, fmt.Errorf("live-state returned status code %d", resp.StatusCode)
	}

	var parsed seriesStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse the series state: %w", err)
	}

	games := parsed.Data.SeriesState.Games
	f.cache.Set(key, games, cache.DefaultTTL)

	return games, nil
}
