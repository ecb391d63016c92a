package dto

import (
	gamefetcher "gridstats/fetcher/data/game"
	"gridstats/fetcher/processors/gamestats"
)

// GameView is one game of a series as handed to the presentation layer.
// Stats is only present when the summary file existed for the game.
type GameView struct {
	GameId     string                   `json:"gameId,omitempty"`
	Duration   int                      `json:"duration,omitempty"`
	Picks      []gamefetcher.Pick       `json:"picks,omitempty"`
	Bans       []gamefetcher.Ban        `json:"bans,omitempty"`
	Winner     *gamefetcher.Winner      `json:"winner,omitempty"`
	Stats      *gamestats.ProcessedGame `json:"stats,omitempty"`
	HasDetails bool                     `json:"hasDetails"`
	HasEvents  bool                     `json:"hasEvents"`
}

// FromRecord builds the view of one normalized game record.
func (GameView) FromRecord(record *gamefetcher.Record) *GameView {
	view := &GameView{
		GameId:     record.GameId,
		Duration:   record.Duration,
		Picks:      record.Picks,
		Bans:       record.Bans,
		Winner:     record.Winner,
		HasDetails: record.Details != nil,
		HasEvents:  record.Events != nil,
	}

	if record.Summary != nil {
		view.Stats = gamestats.Process(record.Summary, record.Details)
	}

	return view
}

// FromRecordSlice maps a slice of records into views.
func (g GameView) FromRecordSlice(records []*gamefetcher.Record) []*GameView {
	views := make([]*GameView, 0, len(records))
	for _, record := range records {
		views = append(views, g.FromRecord(record))
	}
	return views
}
