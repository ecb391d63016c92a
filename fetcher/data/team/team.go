// Package teamfetcher retrieves pre-aggregated team statistics from the
// statistics feed.
package teamfetcher

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

// Time windows accepted by the statistics feed.
const (
	WindowLastMonth    = "LAST_MONTH"
	WindowLast3Months  = "LAST_3_MONTHS"
	WindowLast6Months  = "LAST_6_MONTHS"
	WindowLast12Months = "LAST_12_MONTHS"
)

// DefaultWindow is used when the caller doesn't pick one.
const DefaultWindow = WindowLast6Months

// StatsResponse is the statistics feed envelope.
type StatsResponse struct {
	Statistics struct {
		TeamStatistics struct {
			Series SeriesStatistics `json:"series"`
		} `json:"teamStatistics"`
	} `json:"statistics"`
}

// SeriesStatistics is the per-series aggregate block of the feed. Every
// field is optional, consumers default each one independently to zero.
type SeriesStatistics struct {
	Won              []WonEntry       `json:"won"`
	FirstKill        []FirstKillEntry `json:"firstKill"`
	Objectives       []ObjectiveEntry `json:"objectives"`
	Kills            *AggregateEntry  `json:"kills"`
	Deaths           *AggregateEntry  `json:"deaths"`
	KillAssistsGiven *AggregateEntry  `json:"killAssistsGiven"`
	Game             *GameStatistics  `json:"game"`
}

// WonEntry holds the win-side of the feed with the current streak.
type WonEntry struct {
	Value      bool    `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Streak     struct {
		Current int `json:"current"`
	} `json:"streak"`
}

// FirstKillEntry is the first-blood rate entry.
type FirstKillEntry struct {
	Value      bool    `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ObjectiveEntry is one objective type with its completion counters.
type ObjectiveEntry struct {
	Type            string `json:"type"`
	CompletionCount struct {
		Sum float64 `json:"sum"`
	} `json:"completionCount"`
}

// AggregateEntry is a sum/avg/min/max block.
type AggregateEntry struct {
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GameStatistics carries game-level aggregates, notably the average
// duration as an ISO-8601 duration string and the gold income.
type GameStatistics struct {
	Duration *struct {
		Avg string `json:"avg"`
	} `json:"duration"`
	Money *struct {
		Avg float64 `json:"avg"`
	} `json:"money"`
}

// The team statistics fetcher with its cache and endpoint.
type Fetcher struct {
	cache   *cache.TTLCache
	baseURL string
}

// FetcherDeps is the dependency list for the team fetcher.
type FetcherDeps struct {
	Cache *cache.TTLCache

	// BaseURL overrides the configured stats URL. Used on tests.
	BaseURL string
}

// NewFetcher creates a team statistics fetcher.
func NewFetcher(deps *FetcherDeps) *Fetcher {
	baseURL := deps.BaseURL
	if baseURL == "" {
		baseURL = config.Grid.StatsURL
	}

	return &Fetcher{
		cache:   deps.Cache,
		baseURL: baseURL,
	}
}

// TeamStatistics returns the feed aggregate for a team over a time window.
func (f *Fetcher) TeamStatistics(ctx context.Context, teamId string, timeWindow string) (*StatsResponse, error) {
	if timeWindow == "" {
		timeWindow = DefaultWindow
	}

	key := fmt.Sprintf("teamStats_%s_%s", teamId, timeWindow)
	if cached, found := f.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues("team_stats").Inc()
		return cached.(*StatsResponse), nil
	}
	metrics.CacheMisses.WithLabelValues("team_stats").Inc()

	start := time.Now()
	metrics.FetchRequests.WithLabelValues("team-stats").Inc()

	url := fmt.Sprintf("%s/statistics/team/%s?timeWindow=%s", f.baseURL, teamId, timeWindow)
	resp, err := requests.AuthRequest(ctx, url, http.MethodGet, nil)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("team-stats").Inc()
		return nil, fmt.Errorf("team statistics request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues("team-stats").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.FetchFailures.WithLabelValues("team-stats").Inc()
		return nil, fmt.Errorf("team statistics returned status code %d", resp.StatusCode)
	}

	var stats StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to parse the team statistics: %w", err)
	}

	f.cache.Set(key, &stats, cache.DefaultTTL)
	return &stats, nil
}
