// Package gamestats derives per-team totals and per-player metrics from a
// game summary and its timeline.
package gamestats

import (
	gamefetcher "gridstats/fetcher/data/game"
	"strconv"
	"strings"
)

// Frames past this point are not scanned: turret plates and first blood
// are early-game signals only.
const earlyGameCutoffMs = 850000

// Side identifiers of the two starting map halves.
const (
	BlueSide = 100
	RedSide  = 200
)

// TeamStats are the per-team totals of a single game.
type TeamStats struct {
	Kills                 int                   `json:"kills"`
	Deaths                int                   `json:"deaths"`
	DamageToChampions     int                   `json:"damageToChampions"`
	GoldEarned            int                   `json:"goldEarned"`
	CreepScore            int                   `json:"creepScore"`
	WardsPlaced           int                   `json:"wardsPlaced"`
	WardsKilled           int                   `json:"wardsKilled"`
	ControlWardsPurchased int                   `json:"controlWardsPurchased"`
	TurretPlates          int                   `json:"turretPlates"`
	Objectives            Objectives            `json:"objectives"`
	Bans                  []gamefetcher.TeamBan `json:"bans"`
}

// Objectives groups the objective counters of a team.
type Objectives struct {
	Towers     ObjectiveCount `json:"towers"`
	Dragons    ObjectiveCount `json:"dragons"`
	Barons     ObjectiveCount `json:"barons"`
	Inhibitors ObjectiveCount `json:"inhibitors"`
	Heralds    ObjectiveCount `json:"heralds"`
}

// ObjectiveCount is a kill counter with the "first achieved" flag where the
// summary provides one.
type ObjectiveCount struct {
	Kills int  `json:"kills"`
	First bool `json:"first,omitempty"`
}

// FirstBlood flags one player's involvement in the first kill.
type FirstBlood struct {
	Kill   bool `json:"kill"`
	Assist bool `json:"assist"`
	Victim bool `json:"victim"`
}

// PlayerMetrics are the derived performance numbers of one player.
type PlayerMetrics struct {
	Kills                 int        `json:"kills"`
	Deaths                int        `json:"deaths"`
	Assists               int        `json:"assists"`
	Kda                   float64    `json:"kda"`
	KillParticipation     float64    `json:"killParticipation"`
	DamagePerMinute       float64    `json:"damagePerMinute"`
	DamageShare           float64    `json:"damageShare"`
	WardsPerMinute        float64    `json:"wardsPerMinute"`
	WardsClearedPerMinute float64    `json:"wardsClearedPerMinute"`
	ControlWards          int        `json:"controlWards"`
	Cs                    int        `json:"cs"`
	CsPerMinute           float64    `json:"csPerMinute"`
	GoldEarned            int        `json:"goldEarned"`
	GoldPerMinute         float64    `json:"goldPerMinute"`
	FirstBlood            FirstBlood `json:"firstBlood"`
}

// PlayerStats is one player's identity and derived metrics in one game.
type PlayerStats struct {
	ParticipantId int           `json:"participantId"`
	TeamId        int           `json:"teamId"`
	Name          string        `json:"name"`
	TeamTag       string        `json:"teamTag,omitempty"`
	Position      string        `json:"position"`
	Champion      string        `json:"champion"`
	Stats         PlayerMetrics `json:"stats"`
}

// ProcessedGame is the full per-game statistics output.
type ProcessedGame struct {
	GameId   string             `json:"gameId"`
	Duration int                `json:"duration"`
	Teams    map[int]*TeamStats `json:"teams"`
	Players  []PlayerStats      `json:"players"`
}

// Process computes team totals and player metrics for one game. The
// timeline may be nil when the details file was unavailable.
func Process(summary *gamefetcher.Summary, timeline *gamefetcher.Timeline) *ProcessedGame {
	teams := map[int]*TeamStats{
		BlueSide: {},
		RedSide:  {},
	}

	firstBloodVictimId := scanTimeline(teams, timeline)

	// Sum the raw player counters into the team totals.
	for _, player := range summary.Participants {
		team, exists := teams[player.TeamId]
		if !exists {
			team = &TeamStats{}
			teams[player.TeamId] = team
		}

		team.Kills += player.Kills
		team.Deaths += player.Deaths
		team.DamageToChampions += player.TotalDamageDealtToChampions
		team.GoldEarned += player.GoldEarned
		team.CreepScore += player.TotalMinionsKilled + player.NeutralMinionsKilled
		team.WardsPlaced += player.WardsPlaced
		team.WardsKilled += player.WardsKilled
		team.ControlWardsPurchased += player.VisionWardsBoughtInGame
	}

	for _, team := range summary.Teams {
		stats, exists := teams[team.TeamId]
		if !exists {
			continue
		}

		stats.Objectives = Objectives{
			Towers:     ObjectiveCount{Kills: team.Objectives.Tower.Kills, First: team.Objectives.Tower.First},
			Dragons:    ObjectiveCount{Kills: team.Objectives.Dragon.Kills, First: team.Objectives.Dragon.First},
			Barons:     ObjectiveCount{Kills: team.Objectives.Baron.Kills},
			Inhibitors: ObjectiveCount{Kills: team.Objectives.Inhibitor.Kills},
			Heralds:    ObjectiveCount{Kills: team.Objectives.RiftHerald.Kills, First: team.Objectives.RiftHerald.First},
		}
		stats.Bans = team.Bans
	}

	minutes := float64(summary.GameDuration) / 60

	players := make([]PlayerStats, 0, len(summary.Participants))
	for _, player := range summary.Participants {
		team := teams[player.TeamId]
		teamTag, name := SplitTeamTag(player.RiotIdGameName)
		cs := player.TotalMinionsKilled + player.NeutralMinionsKilled

		players = append(players, PlayerStats{
			ParticipantId: player.ParticipantId,
			TeamId:        player.TeamId,
			Name:          name,
			TeamTag:       teamTag,
			Position:      player.TeamPosition,
			Champion:      player.ChampionName,
			Stats: PlayerMetrics{
				Kills:                 player.Kills,
				Deaths:                player.Deaths,
				Assists:               player.Assists,
				Kda:                   CalculateKda(player.Kills, player.Deaths, player.Assists),
				KillParticipation:     CalculateKillParticipation(player.Kills, player.Assists, team.Kills),
				DamagePerMinute:       perMinute(float64(player.TotalDamageDealtToChampions), minutes),
				DamageShare:           share(float64(player.TotalDamageDealtToChampions), float64(team.DamageToChampions)),
				WardsPerMinute:        perMinute(float64(player.WardsPlaced), minutes),
				WardsClearedPerMinute: perMinute(float64(player.WardsKilled), minutes),
				ControlWards:          player.VisionWardsBoughtInGame,
				Cs:                    cs,
				CsPerMinute:           perMinute(float64(cs), minutes),
				GoldEarned:            player.GoldEarned,
				GoldPerMinute:         perMinute(float64(player.GoldEarned), minutes),
				FirstBlood: FirstBlood{
					Kill:   player.FirstBloodKill,
					Assist: player.FirstBloodAssist,
					Victim: firstBloodVictimId != 0 && firstBloodVictimId == player.ParticipantId,
				},
			},
		})
	}

	return &ProcessedGame{
		GameId:   strconv.FormatInt(summary.GameId, 10),
		Duration: summary.GameDuration,
		Teams:    teams,
		Players:  players,
	}
}

// scanTimeline walks the early-game frames crediting turret plates to the
// opposing side and fixing the first-blood victim. Returns 0 when no first
// blood was found.
func scanTimeline(teams map[int]*TeamStats, timeline *gamefetcher.Timeline) int {
	if timeline == nil {
		return 0
	}

	firstBloodVictimId := 0
	for _, frame := range timeline.Frames {
		if frame.Timestamp > earlyGameCutoffMs {
			break
		}

		for _, event := range frame.Events {
			if event.Type == "TURRET_PLATE_DESTROYED" && event.TeamId != 0 {
				// The event carries the side that lost the plate.
				credited := RedSide
				if event.TeamId == RedSide {
					credited = BlueSide
				}
				teams[credited].TurretPlates++
			}

			if event.Type == "CHAMPION_KILL" && firstBloodVictimId == 0 && event.KillerId != 0 {
				firstBloodVictimId = event.VictimId
			}
		}
	}

	return firstBloodVictimId
}

// SplitTeamTag extracts a team-tag prefix from a raw display name: only
// when a space occurs strictly before index 5 and the prefix equals its own
// upper-casing. Short all-caps player names can fool this heuristic, and a
// leading space yields an empty tag; the behavior is kept as observed.
func SplitTeamTag(name string) (string, string) {
	spaceIndex := strings.Index(name, " ")
	if spaceIndex != -1 && spaceIndex < 5 {
		possibleTag := name[:spaceIndex]
		if possibleTag == strings.ToUpper(possibleTag) {
			return possibleTag, name[spaceIndex+1:]
		}
	}
	return "", name
}

// CalculateKda returns (kills + assists) / deaths, with a death-free game
// counting as one death.
func CalculateKda(kills int, deaths int, assists int) float64 {
	if deaths < 1 {
		deaths = 1
	}
	return float64(kills+assists) / float64(deaths)
}

// CalculateKillParticipation returns the fraction of the team's kills the
// player took part in, 0 when the team has no kills.
func CalculateKillParticipation(kills int, assists int, teamKills int) float64 {
	if teamKills == 0 {
		return 0
	}
	return float64(kills+assists) / float64(teamKills)
}

// perMinute guards the zero-duration edge.
func perMinute(value float64, minutes float64) float64 {
	if minutes == 0 {
		return 0
	}
	return value / minutes
}

// share guards the zero-total edge.
func share(value float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total
}
