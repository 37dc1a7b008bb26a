package model

// Record is a win/loss/tie tally. It is always recomputed from matches.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Total is the number of matches counted into the record.
func (r Record) Total() int {
	return r.Wins + r.Losses + r.Ties
}

// StatValue is a season-wide metric with the team's rank for it.
type StatValue struct {
	Value float64 `json:"value"`
	Rank  int     `json:"rank"`
}

// QuickStats is the season-wide ranking summary from
// GET /teams/{number}/quick-stats?season={season}.
type QuickStats struct {
	Season int        `json:"season,omitempty"`
	Number int        `json:"number,omitempty"`
	Tot    *StatValue `json:"tot,omitempty"`
	Auto   *StatValue `json:"auto,omitempty"`
	DC     *StatValue `json:"dc,omitempty"`
	EG     *StatValue `json:"eg,omitempty"`
	Count  int        `json:"count,omitempty"`
}

// SeasonStats is quick-stats overlaid with the latest event's stats, plus
// the season's raw events.
type SeasonStats struct {
	QuickStats

	Rank              int          `json:"rank,omitempty"`
	RP                float64      `json:"rp,omitempty"`
	TB1               float64      `json:"tb1,omitempty"`
	TB2               float64      `json:"tb2,omitempty"`
	Wins              int          `json:"wins,omitempty"`
	Losses            int          `json:"losses,omitempty"`
	Ties              int          `json:"ties,omitempty"`
	QualMatchesPlayed int          `json:"qualMatchesPlayed,omitempty"`
	Avg               *PhasePoints `json:"avg,omitempty"`
	Max               *PhasePoints `json:"max,omitempty"`

	// HasEventStats is false when no event contributed to the merge.
	HasEventStats bool `json:"-"`

	Events []RawEvent `json:"events"`
}
