package dto

// BannedChampion is one most-banned leaderboard entry, enriched with the
// champion catalog display data.
type BannedChampion struct {
	ChampionId string  `json:"championId"`
	Name       string  `json:"name"`
	ImageUrl   string  `json:"imageUrl"`
	BanRate    float64 `json:"banRate"`
}

// DraftAggregate is the series-level draft statistics, recomputed on demand
// from the valid games of a series.
type DraftAggregate struct {
	BlueSideWinRate     float64          `json:"blueSideWinRate"`
	RedSideWinRate      float64          `json:"redSideWinRate"`
	FirstPickWinRate    float64          `json:"firstPickWinRate"`
	TotalGames          int              `json:"totalGames"`
	MostBanned          []BannedChampion `json:"mostBanned"`
	FirstPhasePickRate  float64          `json:"firstPhasePickRate"`
	SecondPhasePickRate float64          `json:"secondPhasePickRate"`
}
