package gamefetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"gridstats/fetcher/cache"
	"gridstats/fetcher/payload"
	"gridstats/pkg/config"
	"gridstats/pkg/logger"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to build a summary fixture with a full draft.
func summaryFixture(t *testing.T) []byte {
	t.Helper()

	summary := Summary{
		GameId:       9876543210,
		GameDuration: 2100,
	}

	for i := 1; i <= 10; i++ {
		teamId := 100
		if i > 5 {
			teamId = 200
		}
		summary.Participants = append(summary.Participants, Participant{
			ParticipantId: i,
			TeamId:        teamId,
			ChampionId:    i,
		})
	}

	summary.Teams = []TeamSummary{
		{
			TeamId: 100,
			Win:    true,
			Bans:   []TeamBan{{ChampionId: 11, PickTurn: 1}, {ChampionId: 12, PickTurn: 3}},
		},
		{
			TeamId: 200,
			Win:    false,
			Bans:   []TeamBan{{ChampionId: 13, PickTurn: 2}},
		},
	}

	body, err := json.Marshal(summary)
	require.NoError(t, err)
	return body
}

// Test server options so each test can toggle individual files.
type serverOptions struct {
	availability   FileAvailability
	failDetails    bool
	requestCounter *atomic.Int32
}

// Helper building a file-download server for the fixture series.
func newFileServer(t *testing.T, opts serverOptions) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if opts.requestCounter != nil {
			opts.requestCounter.Add(1)
		}
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		switch {
		case strings.HasPrefix(r.URL.Path, "/list/"):
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(opts.availability)

		case strings.HasSuffix(r.URL.Path, "/summary"):
			w.Header().Set("Content-Type", "application/json")
			w.Write(summaryFixture(t))

		case strings.HasSuffix(r.URL.Path, "/details"):
			if opts.failDetails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"frames": [{"timestamp": 60000, "events": []}]}`))

		case strings.Contains(r.URL.Path, "/events/"):
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte{0x01, 0x02})

		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// Helper creating a fetcher against the test server.
func newTestFetcher(server *httptest.Server) *Fetcher {
	return NewFetcher(&FetcherDeps{
		Cache:   cache.New(),
		Logger:  logger.CreateNop(),
		BaseURL: server.URL,
	})
}

func TestFetchGameSummaryOnly(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	server := newFileServer(t, serverOptions{
		availability: FileAvailability{Summary: true},
	})
	defer server.Close()

	outcome := newTestFetcher(server).FetchGame(context.Background(), "series-1", 1)

	require.True(t, outcome.OK())
	record := outcome.Record

	assert.Equal(t, "9876543210", record.GameId)
	assert.Equal(t, 2100, record.Duration)
	require.NotNil(t, record.Summary)
	assert.Nil(t, record.Details)
	assert.Nil(t, record.Events)

	require.Len(t, record.Picks, 10)
	assert.True(t, record.Picks[0].IsFirstPick)
	assert.False(t, record.Picks[1].IsFirstPick)
	assert.Equal(t, 1, record.Picks[0].Position)
	assert.Equal(t, PhaseOne, record.Picks[5].Phase)
	assert.Equal(t, PhaseTwo, record.Picks[6].Phase)
	assert.True(t, record.Picks[0].IsWinner)
	assert.False(t, record.Picks[9].IsWinner)

	require.Len(t, record.Bans, 3)
	assert.Equal(t, "11", record.Bans[0].ChampionId)
	assert.Equal(t, 1, record.Bans[0].Position)
	assert.Equal(t, "13", record.Bans[2].ChampionId)
	assert.Equal(t, "200", record.Bans[2].TeamId)

	require.NotNil(t, record.Winner)
	assert.Equal(t, "100", record.Winner.Id)
}

func TestFetchGameAllFiles(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	server := newFileServer(t, serverOptions{
		availability: FileAvailability{Summary: true, Details: true, Events: true},
	})
	defer server.Close()

	outcome := newTestFetcher(server).FetchGame(context.Background(), "series-1", 2)

	require.True(t, outcome.OK())
	require.NotNil(t, outcome.Record.Details)
	assert.Len(t, outcome.Record.Details.Frames, 1)

	require.NotNil(t, outcome.Record.Events)
	assert.Equal(t, payload.KindBinary, outcome.Record.Events.Kind)
}

func TestFetchGameDetailsFailureDegrades(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	server := newFileServer(t, serverOptions{
		availability: FileAvailability{Summary: true, Details: true},
		failDetails:  true,
	})
	defer server.Close()

	outcome := newTestFetcher(server).FetchGame(context.Background(), "series-1", 1)

	// The record survives with the details field unset.
	require.True(t, outcome.OK())
	assert.Nil(t, outcome.Record.Details)
	require.NotNil(t, outcome.Record.Summary)
	assert.Len(t, outcome.Record.Picks, 10)
}

func TestFetchGameAvailabilityFailure(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	outcome := newTestFetcher(server).FetchGame(context.Background(), "series-1", 1)

	assert.False(t, outcome.OK())
	assert.NotEmpty(t, outcome.Unavailable)
}

func TestFetchGameUsesCache(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	var requestCount atomic.Int32
	server := newFileServer(t, serverOptions{
		availability:   FileAvailability{Summary: true},
		requestCounter: &requestCount,
	})
	defer server.Close()

	fetcher := newTestFetcher(server)

	first := fetcher.FetchGame(context.Background(), "series-1", 1)
	require.True(t, first.OK())
	afterFirst := requestCount.Load()

	second := fetcher.FetchGame(context.Background(), "series-1", 1)
	require.True(t, second.OK())

	assert.Equal(t, afterFirst, requestCount.Load())
	assert.Equal(t, first.Record, second.Record)
}

func TestFetchGameSharesAvailabilityAcrossGames(t *testing.T) {
	config.Grid.ApiKey = "test-key"

	var listRequests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/list/") {
			listRequests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"summary": false, "details": false, "events": false}`)
			return
		}
		t.Errorf("unexpected path: %s", r.URL.Path)
	}))
	defer server.Close()

	fetcher := newTestFetcher(server)

	fetcher.FetchGame(context.Background(), "series-1", 1)
	fetcher.FetchGame(context.Background(), "series-1", 2)

	// One availability lookup serves every game of the series.
	assert.Equal(t, int32(1), listRequests.Load())
}
