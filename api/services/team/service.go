// Package teamservice reconciles the pre-aggregated statistics feed with
// the local series listing into a team performance aggregate.
package teamservice

import (
	"context"
	"gridstats/api/dto"
	catalogfetcher "gridstats/fetcher/data/catalog"
	teamfetcher "gridstats/fetcher/data/team"
	"gridstats/pkg/logger"
	"regexp"
	"strconv"
)

// Matches the feed's ISO-8601 average duration, e.g. PT1H23M45.5S.
var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?`)

// StatsSource provides the authoritative team statistics feed.
type StatsSource interface {
	TeamStatistics(ctx context.Context, teamId string, timeWindow string) (*teamfetcher.StatsResponse, error)
}

// SeriesSource lists catalog series for the side breakdown.
type SeriesSource interface {
	AllSeries(ctx context.Context, tournamentId string) ([]catalogfetcher.SeriesNode, error)
}

// Team service with the statistics feed and the catalog listing.
type TeamService struct {
	stats  StatsSource
	series SeriesSource
	log    *logger.Logger
}

// TeamServiceDeps is the dependency list for the team service.
type TeamServiceDeps struct {
	Stats  StatsSource
	Series SeriesSource
	Logger *logger.Logger
}

// NewTeamService creates a team service.
func NewTeamService(deps *TeamServiceDeps) *TeamService {
	return &TeamService{
		stats:  deps.Stats,
		series: deps.Series,
		log:    deps.Logger,
	}
}

// GetTeamAggregate builds the rolling aggregate for a team. The feed is
// required; the side breakdown degrades to zeros when the series listing
// can't be fetched.
func (ts *TeamService) GetTeamAggregate(ctx context.Context, teamId string, timeWindow string) (*dto.TeamAggregate, error) {
	feed, err := ts.stats.TeamStatistics(ctx, teamId, timeWindow)
	if err != nil {
		return nil, err
	}

	series := feed.Statistics.TeamStatistics.Series
	aggregate := &dto.TeamAggregate{
		Kills:      statSummary(series.Kills),
		Deaths:     statSummary(series.Deaths),
		Assists:    statSummary(series.KillAssistsGiven),
		Objectives: objectiveRates(series),
	}

	// KDA over the averaged fields, a death-free window counts as one.
	deathsAvg := aggregate.Deaths.Avg
	if deathsAvg < 1 {
		deathsAvg = 1
	}
	aggregate.Kda = (aggregate.Kills.Avg + aggregate.Assists.Avg) / deathsAvg

	won := wonEntry(series.Won)
	aggregate.WinRate = won.Percentage
	aggregate.CurrentStreak = streak(won.Streak.Current)
	aggregate.GoldPerMin = goldPerMinute(series.Game)

	sides, form := ts.sideBreakdown(ctx, teamId)
	aggregate.Sides = sides
	aggregate.RecentForm = form

	return aggregate, nil
}

// wonEntry picks the win-side entry of the feed, zero-valued when absent.
func wonEntry(entries []teamfetcher.WonEntry) teamfetcher.WonEntry {
	for _, entry := range entries {
		if entry.Value {
			return entry
		}
	}
	return teamfetcher.WonEntry{}
}

// streak converts the feed's signed streak into type plus magnitude.
func streak(current int) dto.Streak {
	if current > 0 {
		return dto.Streak{Type: "WIN", Count: current}
	}
	return dto.Streak{Type: "LOSS", Count: -current}
}

// statSummary defaults a missing feed block to zeros.
func statSummary(entry *teamfetcher.AggregateEntry) dto.StatSummary {
	if entry == nil {
		return dto.StatSummary{}
	}
	return dto.StatSummary{Sum: entry.Sum, Avg: entry.Avg, Min: entry.Min, Max: entry.Max}
}

// objectiveRates reads the named feed fields, each one defaulting to zero
// on its own. First tower/dragon/baron aren't sourced from the feed and
// stay zero, matching the observed behavior.
func objectiveRates(series teamfetcher.SeriesStatistics) dto.ObjectiveRates {
	rates := dto.ObjectiveRates{}

	for _, entry := range series.FirstKill {
		if entry.Value {
			rates.FirstBlood = entry.Percentage
			break
		}
	}

	for _, objective := range series.Objectives {
		switch objective.Type {
		case "destroyTower":
			rates.TowerKills = objective.CompletionCount.Sum
		case "slayDragon":
			rates.DragonKills = objective.CompletionCount.Sum
		case "slayBaron":
			rates.BaronKills = objective.CompletionCount.Sum
		}
	}

	return rates
}

// goldPerMinute divides the average gold by the minutes component of the
// ISO-8601 average duration. Hours and seconds are captured by the pattern
// but not used, matching the observed behavior.
func goldPerMinute(game *teamfetcher.GameStatistics) float64 {
	if game == nil || game.Money == nil {
		return 0
	}

	minutes := 0
	if game.Duration != nil {
		if match := durationPattern.FindStringSubmatch(game.Duration.Avg); match != nil && match[2] != "" {
			minutes, _ = strconv.Atoi(match[2])
		}
	}
	if minutes < 1 {
		minutes = 1
	}

	return game.Money.Avg / float64(minutes)
}

// sideBreakdown computes the per-side split from the local series listing:
// array position 0 is the first side, a positive score advantage marks the
// series as won.
func (ts *TeamService) sideBreakdown(ctx context.Context, teamId string) (dto.SideBreakdown, []string) {
	all, err := ts.series.AllSeries(ctx, "")
	if err != nil {
		ts.log.Warnw("series listing unavailable, side stats degrade to zero",
			"teamId", teamId,
			"error", err,
		)
		return dto.SideBreakdown{}, nil
	}

	breakdown := dto.SideBreakdown{}
	var form []string

	for _, node := range all {
		entry, position := teamEntry(node, teamId)
		if entry == nil {
			continue
		}

		breakdown.TotalGames++
		won := entry.ScoreAdvantage > 0
		if won {
			breakdown.Wins++
		}

		if position == 0 {
			breakdown.BlueGames++
			if won {
				breakdown.BlueWins++
			}
		} else {
			breakdown.RedGames++
		}

		if len(form) < 5 {
			if won {
				form = append(form, "win")
			} else {
				form = append(form, "loss")
			}
		}
	}

	breakdown.Losses = breakdown.TotalGames - breakdown.Wins
	breakdown.RedWins = breakdown.Wins - breakdown.BlueWins

	return breakdown, form
}

// teamEntry finds the team inside a series node with its array position.
func teamEntry(node catalogfetcher.SeriesNode, teamId string) (*catalogfetcher.SeriesTeam, int) {
	for i := range node.Teams {
		if node.Teams[i].BaseInfo.Id == teamId {
			return &node.Teams[i], i
		}
	}
	return nil, -1
}
