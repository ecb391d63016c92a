package dto

// StatSummary mirrors a sum/avg/min/max block of the statistics feed.
type StatSummary struct {
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Streak is the current run of results, always a positive count with its
// type.
type Streak struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ObjectiveRates are the objective-control numbers of a team.
type ObjectiveRates struct {
	FirstBlood  float64 `json:"firstBlood"`
	FirstTower  float64 `json:"firstTower"`
	FirstDragon float64 `json:"firstDragon"`
	FirstBaron  float64 `json:"firstBaron"`
	TowerKills  float64 `json:"towerKills"`
	DragonKills float64 `json:"dragonKills"`
	BaronKills  float64 `json:"baronKills"`
}

// SideBreakdown is the locally computed side split of a team's series.
type SideBreakdown struct {
	TotalGames int `json:"totalGames"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	BlueGames  int `json:"blueGames"`
	RedGames   int `json:"redGames"`
	BlueWins   int `json:"blueWins"`
	RedWins    int `json:"redWins"`
}

// TeamAggregate is a team's rolling statistics over a time window. The
// feed is authoritative for win rate and streak, the side breakdown comes
// from the local series listing.
type TeamAggregate struct {
	Kills         StatSummary    `json:"kills"`
	Deaths        StatSummary    `json:"deaths"`
	Assists       StatSummary    `json:"assists"`
	Kda           float64        `json:"kda"`
	GoldPerMin    float64        `json:"goldPerMin"`
	WinRate       float64        `json:"winRate"`
	CurrentStreak Streak         `json:"currentStreak"`
	Objectives    ObjectiveRates `json:"objectives"`
	Sides         SideBreakdown  `json:"sides"`
	RecentForm    []string       `json:"recentForm"`
}
