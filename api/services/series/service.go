// Package seriesservice collects the games of a series and computes the
// series-level draft statistics.
package seriesservice

import (
	"context"
	"gridstats/api/dto"
	catalogfetcher "gridstats/fetcher/data/catalog"
	gamefetcher "gridstats/fetcher/data/game"
	seriesfetcher "gridstats/fetcher/data/series"
	"gridstats/pkg/logger"
	"sort"

	"golang.org/x/sync/errgroup"
)

// GameDirectory lists the games of a series from the live-state feed.
type GameDirectory interface {
	GamesBySeries(ctx context.Context, seriesId string) ([]seriesfetcher.SeriesGame, error)
}

// GameSource settles per-game fetches.
type GameSource interface {
	FetchGame(ctx context.Context, seriesId string, gameNumber int) gamefetcher.Outcome
}

// ChampionSource resolves the champion catalog for display enrichment.
type ChampionSource interface {
	Champions(ctx context.Context) ([]catalogfetcher.Champion, error)
}

// Series service with its fetchers and the champion catalog.
type SeriesService struct {
	directory GameDirectory
	games     GameSource
	champions ChampionSource
	log       *logger.Logger
}

// SeriesServiceDeps is the dependency list for the series service.
type SeriesServiceDeps struct {
	Directory GameDirectory
	Games     GameSource
	Champions ChampionSource
	Logger    *logger.Logger
}

// NewSeriesService creates a series service.
func NewSeriesService(deps *SeriesServiceDeps) *SeriesService {
	return &SeriesService{
		directory: deps.Directory,
		games:     deps.Games,
		champions: deps.Champions,
		log:       deps.Logger,
	}
}

// CollectSeriesGames fetches every finished game of the series. The
// per-game fetches run concurrently and all settle: one unavailable game is
// dropped from the result, never failing its siblings. Records come back in
// the requested sequence order regardless of completion order.
func (s *SeriesService) CollectSeriesGames(ctx context.Context, seriesId string) ([]*gamefetcher.Record, error) {
	games, err := s.directory.GamesBySeries(ctx, seriesId)
	if err != nil {
		return nil, err
	}

	var finished []seriesfetcher.SeriesGame
	for _, game := range games {
		if game.Finished {
			finished = append(finished, game)
		}
	}

	sort.Slice(finished, func(i, j int) bool {
		return finished[i].SequenceNumber < finished[j].SequenceNumber
	})

	outcomes := make([]gamefetcher.Outcome, len(finished))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, game := range finished {
		i, game := i, game
		group.Go(func() error {
			// FetchGame never errors, so the group never cancels siblings.
			outcomes[i] = s.games.FetchGame(groupCtx, seriesId, game.SequenceNumber)
			return nil
		})
	}
	// Every task returns nil, so the group error is always empty.
	_ = group.Wait()

	records := make([]*gamefetcher.Record, 0, len(outcomes))
	for i, outcome := range outcomes {
		if !outcome.OK() {
			s.log.Warnw("skipping unavailable game",
				"seriesId", seriesId,
				"gameNumber", finished[i].SequenceNumber,
				"reason", outcome.Unavailable,
			)
			continue
		}
		records = append(records, outcome.Record)
	}

	return records, nil
}

// SeriesGames returns the presentation views of a series' games.
func (s *SeriesService) SeriesGames(ctx context.Context, seriesId string) ([]*dto.GameView, error) {
	records, err := s.CollectSeriesGames(ctx, seriesId)
	if err != nil {
		return nil, err
	}

	var viewHelper dto.GameView
	return viewHelper.FromRecordSlice(records), nil
}

// DraftAggregate computes the draft statistics over the valid games of the
// series. Returns nil without error when no valid game exists: "no data"
// stays distinct from computed zeros.
func (s *SeriesService) DraftAggregate(ctx context.Context, seriesId string) (*dto.DraftAggregate, error) {
	records, err := s.CollectSeriesGames(ctx, seriesId)
	if err != nil {
		return nil, err
	}

	valid := make([]*gamefetcher.Record, 0, len(records))
	for _, record := range records {
		if isValidDraftData(record) {
			valid = append(valid, record)
			continue
		}
		s.log.Infow("excluding game from draft aggregation",
			"seriesId", seriesId,
			"gameId", record.GameId,
			"picks", len(record.Picks),
			"bans", len(record.Bans),
			"hasWinner", record.Winner != nil,
		)
	}

	if len(valid) == 0 {
		return nil, nil
	}

	return s.aggregate(ctx, valid)
}

// isValidDraftData keeps only records with a full draft and a result.
func isValidDraftData(record *gamefetcher.Record) bool {
	return len(record.Picks) > 0 && len(record.Bans) > 0 && record.Winner != nil
}

// championCounts accumulates per-champion draft counters.
type championCounts struct {
	bans       int
	picks      int
	wins       int
	firstPicks int
}

// aggregate runs the draft math over the already-validated games.
func (s *SeriesService) aggregate(ctx context.Context, games []*gamefetcher.Record) (*dto.DraftAggregate, error) {
	totalGames := len(games)

	blueSideWins := 0
	redSideWins := 0
	firstPickWins := 0
	firstPhasePicks := 0
	secondPhasePicks := 0
	totalPicks := 0
	perChampion := make(map[string]*championCounts)

	counts := func(championId string) *championCounts {
		if c, exists := perChampion[championId]; exists {
			return c
		}
		c := &championCounts{}
		perChampion[championId] = c
		return c
	}

	for _, game := range games {
		for _, pick := range game.Picks {
			totalPicks++
			switch pick.Phase {
			case gamefetcher.PhaseOne:
				firstPhasePicks++
			case gamefetcher.PhaseTwo:
				secondPhasePicks++
			}

			c := counts(pick.ChampionId)
			c.picks++
			if pick.IsFirstPick {
				c.firstPicks++
			}
			if pick.IsWinner {
				c.wins++
			}
		}

		for _, ban := range game.Bans {
			counts(ban.ChampionId).bans++
		}

		winningTeamId := game.Winner.Id
		for _, pick := range game.Picks {
			if pick.IsFirstPick && pick.TeamId == winningTeamId {
				firstPickWins++
				break
			}
		}

		switch winningTeamId {
		case "100":
			blueSideWins++
		case "200":
			redSideWins++
		}
	}

	mostBanned, err := s.mostBanned(ctx, perChampion, totalGames)
	if err != nil {
		return nil, err
	}

	aggregate := &dto.DraftAggregate{
		BlueSideWinRate:  float64(blueSideWins) / float64(totalGames),
		RedSideWinRate:   float64(redSideWins) / float64(totalGames),
		FirstPickWinRate: float64(firstPickWins) / float64(totalGames),
		TotalGames:       totalGames,
		MostBanned:       mostBanned,
	}

	if totalPicks > 0 {
		aggregate.FirstPhasePickRate = float64(firstPhasePicks) / float64(totalPicks)
		aggregate.SecondPhasePickRate = float64(secondPhasePicks) / float64(totalPicks)
	}

	return aggregate, nil
}

// mostBanned builds the top-5 ban leaderboard enriched from the champion
// catalog. Ties keep the catalog order, champions the catalog doesn't know
// are appended by id so the result stays deterministic.
func (s *SeriesService) mostBanned(ctx context.Context, perChampion map[string]*championCounts, totalGames int) ([]dto.BannedChampion, error) {
	catalog, err := s.champions.Champions(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.BannedChampion, 0, len(perChampion))
	seen := make(map[string]bool, len(perChampion))

	for _, champion := range catalog {
		c, exists := perChampion[champion.Id]
		if !exists {
			continue
		}
		seen[champion.Id] = true
		entries = append(entries, dto.BannedChampion{
			ChampionId: champion.Id,
			Name:       champion.Name,
			ImageUrl:   champion.ImageUrl,
			BanRate:    float64(c.bans) / float64(totalGames),
		})
	}

	var unknown []string
	for championId := range perChampion {
		if !seen[championId] {
			unknown = append(unknown, championId)
		}
	}
	sort.Strings(unknown)
	for _, championId := range unknown {
		entries = append(entries, dto.BannedChampion{
			ChampionId: championId,
			BanRate:    float64(perChampion[championId].bans) / float64(totalGames),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BanRate > entries[j].BanRate
	})

	if len(entries) > 5 {
		entries = entries[:5]
	}

	return entries, nil
}
