package gamefetcher

import (
	"gridstats/fetcher/payload"
)

// FileAvailability is the file-availability endpoint response: which raw
// file types exist for a series.
type FileAvailability struct {
	Events  bool `json:"events"`
	Summary bool `json:"summary"`
	Details bool `json:"details"`
	Tencent bool `json:"tencent"`
	Replay  bool `json:"replay"`
}

// Summary is the post-game summary file.
type Summary struct {
	GameId       int64         `json:"gameId"`
	GameDuration int           `json:"gameDuration"`
	Participants []Participant `json:"participants"`
	Teams        []TeamSummary `json:"teams"`
}

// Participant is one player's raw counters on the summary file.
type Participant struct {
	ParticipantId               int    `json:"participantId"`
	TeamId                      int    `json:"teamId"`
	ChampionId                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	RiotIdGameName              string `json:"riotIdGameName"`
	TeamPosition                string `json:"teamPosition"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	WardsPlaced                 int    `json:"wardsPlaced"`
	WardsKilled                 int    `json:"wardsKilled"`
	VisionWardsBoughtInGame     int    `json:"visionWardsBoughtInGame"`
	FirstBloodKill              bool   `json:"firstBloodKill"`
	FirstBloodAssist            bool   `json:"firstBloodAssist"`
}

// TeamSummary is one team's block on the summary file.
type TeamSummary struct {
	TeamId     int            `json:"teamId"`
	Win        bool           `json:"win"`
	Bans       []TeamBan      `json:"bans"`
	Objectives TeamObjectives `json:"objectives"`
}

// TeamBan is a single ban on the summary file, in ban order.
type TeamBan struct {
	ChampionId int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// TeamObjectives are the objective counters of one team.
type TeamObjectives struct {
	Tower      Objective `json:"tower"`
	Dragon     Objective `json:"dragon"`
	Baron      Objective `json:"baron"`
	Inhibitor  Objective `json:"inhibitor"`
	RiftHerald Objective `json:"riftHerald"`
}

// Objective is a counter with its "first achieved" flag.
type Objective struct {
	First bool `json:"first"`
	Kills int  `json:"kills"`
}

// Timeline is the timeline-details file.
type Timeline struct {
	Frames []TimelineFrame `json:"frames"`
}

// TimelineFrame groups the events of one timeline slice.
type TimelineFrame struct {
	Timestamp int64           `json:"timestamp"`
	Events    []TimelineEvent `json:"events"`
}

// TimelineEvent is a single timeline event. Only the fields the processor
// consumes are mapped.
type TimelineEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	TeamId    int    `json:"teamId"`
	KillerId  int    `json:"killerId"`
	VictimId  int    `json:"victimId"`
}

// Draft phase tags carried by each pick, derived from the draft position.
const (
	PhaseOne = "PHASE_1"
	PhaseTwo = "PHASE_2"
)

// Pick is one draft pick derived from the summary.
type Pick struct {
	ChampionId  string `json:"championId"`
	TeamId      string `json:"teamId"`
	IsFirstPick bool   `json:"isFirstPick"`
	IsWinner    bool   `json:"isWinner"`
	Phase       string `json:"phase"`
	Position    int    `json:"position"`
}

// Ban is one draft ban derived from the summary.
type Ban struct {
	ChampionId string `json:"championId"`
	TeamId     string `json:"teamId"`
	Position   int    `json:"position"`
}

// Winner references the winning side.
type Winner struct {
	Id string `json:"id"`
}

// Record is the normalized per-game record. Picks, bans and the winner are
// populated together iff the summary file decoded, never partially.
type Record struct {
	GameId   string           `json:"gameId,omitempty"`
	Duration int              `json:"duration,omitempty"`
	Summary  *Summary         `json:"summary,omitempty"`
	Details  *Timeline        `json:"details,omitempty"`
	Events   *payload.Payload `json:"events,omitempty"`
	Picks    []Pick           `json:"picks,omitempty"`
	Bans     []Ban            `json:"bans,omitempty"`
	Winner   *Winner          `json:"winner,omitempty"`
}

// Outcome is the settled result of one per-game fetch: either a record or
// an unavailable reason. A failed game never aborts its siblings.
type Outcome struct {
	Record      *Record
	Unavailable string
}

// OK reports whether a record was produced.
func (o Outcome) OK() bool {
	return o.Record != nil
}
