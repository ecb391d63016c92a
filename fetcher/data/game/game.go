// Package gamefetcher retrieves and normalizes the raw per-game files
// (summary, timeline details, live events) of a series.
package gamefetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"gridstats/fetcher/cache"
	"gridstats/fetcher/payload"
	"gridstats/fetcher/requests"
	"gridstats/pkg/config"
	"gridstats/pkg/logger"
	"gridstats/pkg/metrics"
	"io"
	"net/http"
	"strconv"
	"time"
)

// The per-game fetcher with its cache, endpoint and logger.
type Fetcher struct {
	cache   *cache.TTLCache
	baseURL string
	log     *logger.Logger
}

// FetcherDeps is the dependency list for the game fetcher.
type FetcherDeps struct {
	Cache  *cache.TTLCache
	Logger *logger.Logger

	// BaseURL overrides the configured file-download URL. Used on tests.
	BaseURL string
}

// NewFetcher creates a per-game data fetcher.
func NewFetcher(deps *FetcherDeps) *Fetcher {
	baseURL := deps.BaseURL
	if baseURL == "" {
		baseURL = config.Grid.FileDownloadURL
	}

	return &Fetcher{
		cache:   deps.Cache,
		baseURL: baseURL,
		log:     deps.Logger,
	}
}

// FetchGame settles into a normalized record for one game of a series, or
// an unavailable outcome when the game can't be constructed at all.
// Individual missing files only leave their field unset.
func (f *Fetcher) FetchGame(ctx context.Context, seriesId string, gameNumber int) Outcome {
	key := fmt.Sprintf("gameData_%s_%d", seriesId, gameNumber)
	if cached, found := f.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues("game_data").Inc()
		return Outcome{Record: cached.(*Record)}
	}
	metrics.CacheMisses.WithLabelValues("game_data").Inc()

	available, err := f.availableFiles(ctx, seriesId)
	if err != nil {
		f.log.Warnw("availability lookup failed",
			"seriesId", seriesId,
			"gameNumber", gameNumber,
			"error", err,
		)
		metrics.GamesUnavailable.Inc()
		return Outcome{Unavailable: fmt.Sprintf("availability lookup failed: %v", err)}
	}

	record := &Record{}

	if available.Summary {
		url := fmt.Sprintf("%s/end-state/riot/series/%s/games/%d/summary", f.baseURL, seriesId, gameNumber)
		if decoded, err := f.downloadFile(ctx, url, "summary"); err != nil {
			f.log.Warnw("summary unavailable", "seriesId", seriesId, "gameNumber", gameNumber, "error", err)
		} else if decoded.JSON != nil {
			var summary Summary
			if err := json.Unmarshal(decoded.JSON, &summary); err != nil {
				f.log.Warnw("malformed summary", "seriesId", seriesId, "gameNumber", gameNumber, "error", err)
			} else {
				record.Summary = &summary
			}
		}
	}

	if available.Details {
		url := fmt.Sprintf("%s/end-state/riot/series/%s/games/%d/details", f.baseURL, seriesId, gameNumber)
		if decoded, err := f.downloadFile(ctx, url, "details"); err != nil {
			f.log.Warnw("details unavailable", "seriesId", seriesId, "gameNumber", gameNumber, "error", err)
		} else if decoded.JSON != nil {
			var timeline Timeline
			if err := json.Unmarshal(decoded.JSON, &timeline); err != nil {
				f.log.Warnw("malformed timeline", "seriesId", seriesId, "gameNumber", gameNumber, "error", err)
			} else {
				record.Details = &timeline
			}
		}
	}

	if available.Events {
		url := fmt.Sprintf("%s/events/riot/series/%s/games/%d", f.baseURL, seriesId, gameNumber)
		if decoded, err := f.downloadFile(ctx, url, "events"); err != nil {
			f.log.Warnw("events unavailable", "seriesId", seriesId, "gameNumber", gameNumber, "error", err)
		} else {
			record.Events = decoded
		}
	}

	// Picks, bans and the winner only exist as a unit once a summary does.
	if record.Summary != nil {
		deriveDraft(record)
	}

	// Summary-less records are cached as well, so repeated lookups inside
	// the TTL don't hammer a series with missing files.
	f.cache.Set(key, record, cache.DefaultTTL)

	return Outcome{Record: record}
}

// availableFiles asks the provider which raw file types exist for the series.
func (f *Fetcher) availableFiles(ctx context.Context, seriesId string) (*FileAvailability, error) {
	key := "files_" + seriesId
	if cached, found := f.cache.Get(key); found {
		metrics.CacheHits.WithLabelValues("file_availability").Inc()
		return cached.(*FileAvailability), nil
	}
	metrics.CacheMisses.WithLabelValues("file_availability").Inc()

	start := time.Now()
	metrics.FetchRequests.WithLabelValues("availability").Inc()

	resp, err := requests.AuthRequest(ctx, f.baseURL+"/list/"+seriesId, http.MethodGet, nil)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("availability").Inc()
		return nil, fmt.Errorf("availability request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues("availability").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.FetchFailures.WithLabelValues("availability").Inc()
		return nil, fmt.Errorf("availability returned status code %d", resp.StatusCode)
	}

	var available FileAvailability
	if err := json.NewDecoder(resp.Body).Decode(&available); err != nil {
		return nil, fmt.Errorf("failed to parse the availability response: %w", err)
	}

	f.cache.Set(key, &available, cache.DefaultTTL)
	return &available, nil
}

// downloadFile fetches one raw file and decodes it by content type.
func (f *Fetcher) downloadFile(ctx context.Context, url string, fileType string) (*payload.Payload, error) {
	start := time.Now()
	metrics.FetchRequests.WithLabelValues("file-download").Inc()

	resp, err := requests.AuthRequest(ctx, url, http.MethodGet, nil)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("file-download").Inc()
		return nil, fmt.Errorf("%s request failed: %w", fileType, err)
	}
	defer resp.Body.Close()
	metrics.FetchDuration.WithLabelValues("file-download").Observe(time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.FetchFailures.WithLabelValues("file-download").Inc()
		return nil, fmt.Errorf("%s returned status code %d", fileType, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read the %s body: %w", fileType, err)
	}

	decoded, err := payload.Decode(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the %s file: %w", fileType, err)
	}

	return decoded, nil
}

// deriveDraft fills the summary-derived fields: game id, duration, picks in
// participant order, bans flattened per team, and the winner.
func deriveDraft(record *Record) {
	summary := record.Summary

	record.GameId = strconv.FormatInt(summary.GameId, 10)
	record.Duration = summary.GameDuration

	winByTeam := make(map[int]bool, len(summary.Teams))
	for _, team := range summary.Teams {
		winByTeam[team.TeamId] = team.Win
	}

	picks := make([]Pick, 0, len(summary.Participants))
	for i, participant := range summary.Participants {
		position := i + 1
		picks = append(picks, Pick{
			ChampionId:  strconv.Itoa(participant.ChampionId),
			TeamId:      strconv.Itoa(participant.TeamId),
			IsFirstPick: position == 1,
			IsWinner:    winByTeam[participant.TeamId],
			Phase:       phaseForPosition(position),
			Position:    position,
		})
	}

	var bans []Ban
	for _, team := range summary.Teams {
		for i, ban := range team.Bans {
			bans = append(bans, Ban{
				ChampionId: strconv.Itoa(ban.ChampionId),
				TeamId:     strconv.Itoa(team.TeamId),
				Position:   i + 1,
			})
		}
	}

	for _, team := range summary.Teams {
		if team.Win {
			record.Winner = &Winner{Id: strconv.Itoa(team.TeamId)}
			break
		}
	}

	record.Picks = picks
	record.Bans = bans
}

// phaseForPosition tags a draft position: the standard competitive draft
// picks champions 1-6 on the first phase and 7-10 on the second.
func phaseForPosition(position int) string {
	if position <= 6 {
		return PhaseOne
	}
	return PhaseTwo
}
