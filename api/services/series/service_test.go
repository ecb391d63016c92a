package seriesservice

import (
	"context"
	"errors"
	"gridstats/api/dto"
	catalogfetcher "gridstats/fetcher/data/catalog"
	gamefetcher "gridstats/fetcher/data/game"
	seriesfetcher "gridstats/fetcher/data/series"
	"gridstats/pkg/logger"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGameDirectory struct {
	mock.Mock
}

func (m *MockGameDirectory) GamesBySeries(ctx context.Context, seriesId string) ([]seriesfetcher.SeriesGame, error) {
	args := m.Called(ctx, seriesId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seriesfetcher.SeriesGame), args.Error(1)
}

type MockGameSource struct {
	mock.Mock
}

func (m *MockGameSource) FetchGame(ctx context.Context, seriesId string, gameNumber int) gamefetcher.Outcome {
	args := m.Called(ctx, seriesId, gameNumber)
	return args.Get(0).(gamefetcher.Outcome)
}

type MockChampionSource struct {
	mock.Mock
}

func (m *MockChampionSource) Champions(ctx context.Context) ([]catalogfetcher.Champion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogfetcher.Champion), args.Error(1)
}

// Helper to initialize the mocks.
func setupSeriesService() (*SeriesService, *MockGameDirectory, *MockGameSource, *MockChampionSource) {
	mockDirectory := &MockGameDirectory{}
	mockGames := &MockGameSource{}
	mockChampions := &MockChampionSource{}

	service := NewSeriesService(&SeriesServiceDeps{
		Directory: mockDirectory,
		Games:     mockGames,
		Champions: mockChampions,
		Logger:    logger.CreateNop(),
	})

	return service, mockDirectory, mockGames, mockChampions
}

// Helper building a record with a full ten-pick draft. The first five picks
// belong to side 100, the rest to side 200.
func buildDraftRecord(gameId string, winnerId string, bannedChampions []string) *gamefetcher.Record {
	record := &gamefetcher.Record{
		GameId: gameId,
		Winner: &gamefetcher.Winner{Id: winnerId},
	}

	for position := 1; position <= 10; position++ {
		teamId := "100"
		if position > 5 {
			teamId = "200"
		}
		phase := gamefetcher.PhaseOne
		if position > 6 {
			phase = gamefetcher.PhaseTwo
		}
		record.Picks = append(record.Picks, gamefetcher.Pick{
			ChampionId:  strconv.Itoa(position),
			TeamId:      teamId,
			IsFirstPick: position == 1,
			IsWinner:    teamId == winnerId,
			Phase:       phase,
			Position:    position,
		})
	}

	for i, championId := range bannedChampions {
		record.Bans = append(record.Bans, gamefetcher.Ban{
			ChampionId: championId,
			TeamId:     "100",
			Position:   i + 1,
		})
	}

	return record
}

func TestCollectSeriesGames(t *testing.T) {
	service, mockDirectory, mockGames, _ := setupSeriesService()

	// Out of order and with an unfinished game that must not be fetched.
	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return([]seriesfetcher.SeriesGame{
		{Id: "g2", SequenceNumber: 2, Finished: true},
		{Id: "g1", SequenceNumber: 1, Finished: true},
		{Id: "g3", SequenceNumber: 3, Finished: false},
	}, nil)

	recordOne := &gamefetcher.Record{GameId: "one"}
	recordTwo := &gamefetcher.Record{GameId: "two"}
	mockGames.On("FetchGame", mock.Anything, "series-1", 1).Return(gamefetcher.Outcome{Record: recordOne})
	mockGames.On("FetchGame", mock.Anything, "series-1", 2).Return(gamefetcher.Outcome{Record: recordTwo})

	records, err := service.CollectSeriesGames(context.Background(), "series-1")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "one", records[0].GameId)
	assert.Equal(t, "two", records[1].GameId)
	mockGames.AssertNotCalled(t, "FetchGame", mock.Anything, "series-1", 3)
}

func TestCollectSeriesGamesDropsUnavailable(t *testing.T) {
	service, mockDirectory, mockGames, _ := setupSeriesService()

	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return([]seriesfetcher.SeriesGame{
		{Id: "g1", SequenceNumber: 1, Finished: true},
		{Id: "g2", SequenceNumber: 2, Finished: true},
	}, nil)

	mockGames.On("FetchGame", mock.Anything, "series-1", 1).Return(gamefetcher.Outcome{Unavailable: "availability lookup failed"})
	mockGames.On("FetchGame", mock.Anything, "series-1", 2).Return(gamefetcher.Outcome{Record: &gamefetcher.Record{GameId: "two"}})

	records, err := service.CollectSeriesGames(context.Background(), "series-1")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "two", records[0].GameId)
}

func TestCollectSeriesGamesDirectoryFailure(t *testing.T) {
	service, mockDirectory, _, _ := setupSeriesService()

	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return(nil, errors.New("upstream down"))

	_, err := service.CollectSeriesGames(context.Background(), "series-1")
	assert.Error(t, err)
}

func TestDraftAggregate(t *testing.T) {
	service, mockDirectory, mockGames, mockChampions := setupSeriesService()

	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return([]seriesfetcher.SeriesGame{
		{Id: "g1", SequenceNumber: 1, Finished: true},
		{Id: "g2", SequenceNumber: 2, Finished: true},
		{Id: "g3", SequenceNumber: 3, Finished: true},
		{Id: "g4", SequenceNumber: 4, Finished: true},
	}, nil)

	// Champion 266 banned every game, 103 twice, 55 once.
	mockGames.On("FetchGame", mock.Anything, "series-1", 1).
		Return(gamefetcher.Outcome{Record: buildDraftRecord("g1", "100", []string{"266", "103"})})
	mockGames.On("FetchGame", mock.Anything, "series-1", 2).
		Return(gamefetcher.Outcome{Record: buildDraftRecord("g2", "100", []string{"266", "103"})})
	mockGames.On("FetchGame", mock.Anything, "series-1", 3).
		Return(gamefetcher.Outcome{Record: buildDraftRecord("g3", "200", []string{"266", "55"})})
	mockGames.On("FetchGame", mock.Anything, "series-1", 4).
		Return(gamefetcher.Outcome{Record: buildDraftRecord("g4", "200", []string{"266"})})

	mockChampions.On("Champions", mock.Anything).Return([]catalogfetcher.Champion{
		{Id: "266", Name: "Aatrox", ImageUrl: "https://cdn/aatrox.png"},
		{Id: "103", Name: "Ahri", ImageUrl: "https://cdn/ahri.png"},
	}, nil)

	aggregate, err := service.DraftAggregate(context.Background(), "series-1")

	require.NoError(t, err)
	require.NotNil(t, aggregate)

	assert.Equal(t, 4, aggregate.TotalGames)
	assert.InDelta(t, 0.5, aggregate.BlueSideWinRate, 0.0001)
	assert.InDelta(t, 0.5, aggregate.RedSideWinRate, 0.0001)

	// The first pick always belongs to side 100, which won twice.
	assert.InDelta(t, 0.5, aggregate.FirstPickWinRate, 0.0001)

	// Positions 1-6 of every draft are first phase.
	assert.InDelta(t, 0.6, aggregate.FirstPhasePickRate, 0.0001)
	assert.InDelta(t, 0.4, aggregate.SecondPhasePickRate, 0.0001)

	require.Len(t, aggregate.MostBanned, 3)
	assert.Equal(t, dto.BannedChampion{
		ChampionId: "266",
		Name:       "Aatrox",
		ImageUrl:   "https://cdn/aatrox.png",
		BanRate:    1.0,
	}, aggregate.MostBanned[0])
	assert.Equal(t, "103", aggregate.MostBanned[1].ChampionId)
	assert.InDelta(t, 0.5, aggregate.MostBanned[1].BanRate, 0.0001)

	// Unknown to the catalog, still ranked by its rate.
	assert.Equal(t, "55", aggregate.MostBanned[2].ChampionId)
	assert.Empty(t, aggregate.MostBanned[2].Name)
	assert.InDelta(t, 0.25, aggregate.MostBanned[2].BanRate, 0.0001)
}

func TestDraftAggregateExcludesPartialDrafts(t *testing.T) {
	service, mockDirectory, mockGames, mockChampions := setupSeriesService()

	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return([]seriesfetcher.SeriesGame{
		{Id: "g1", SequenceNumber: 1, Finished: true},
		{Id: "g2", SequenceNumber: 2, Finished: true},
	}, nil)

	// A remake without bans must not poison the aggregate.
	noBans := buildDraftRecord("g1", "100", nil)
	mockGames.On("FetchGame", mock.Anything, "series-1", 1).Return(gamefetcher.Outcome{Record: noBans})
	mockGames.On("FetchGame", mock.Anything, "series-1", 2).
		Return(gamefetcher.Outcome{Record: buildDraftRecord("g2", "200", []string{"266"})})

	mockChampions.On("Champions", mock.Anything).Return([]catalogfetcher.Champion{}, nil)

	aggregate, err := service.DraftAggregate(context.Background(), "series-1")

	require.NoError(t, err)
	require.NotNil(t, aggregate)
	assert.Equal(t, 1, aggregate.TotalGames)
	assert.InDelta(t, 1.0, aggregate.RedSideWinRate, 0.0001)
}

func TestDraftAggregateNoValidGames(t *testing.T) {
	service, mockDirectory, mockGames, mockChampions := setupSeriesService()

	mockDirectory.On("GamesBySeries", mock.Anything, "series-1").Return([]seriesfetcher.SeriesGame{
		{Id: "g1", SequenceNumber: 1, Finished: true},
	}, nil)

	// Summary-less record: no picks, no bans, no winner.
	mockGames.On("FetchGame", mock.Anything, "series-1", 1).Return(gamefetcher.Outcome{Record: &gamefetcher.Record{}})

	aggregate, err := service.DraftAggregate(context.Background(), "series-1")

	require.NoError(t, err)
	assert.Nil(t, aggregate)
	mockChampions.AssertNotCalled(t, "Champions", mock.Anything)
}
