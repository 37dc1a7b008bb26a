// Package stats computes win/loss records and the combined season view.
package stats

import (
	"strings"

	"github.com/okian/ftcscope/internal/domain/model"
)

// Result is the outcome of a match for the looked-up team.
type Result string

// Match outcomes.
const (
	Won  Result = "Won"
	Lost Result = "Lost"
	Tie  Result = "Tie"
	NA   Result = "N/A"
)

// DetermineResult compares the team's alliance score against the opponent's.
// It is NA exactly when m.Alliance is neither RED nor BLUE.
func DetermineResult(m model.NormalizedMatch) Result {
	red := m.RedScore.EffectiveTotal()
	blue := m.BlueScore.EffectiveTotal()
	switch m.Alliance {
	case model.AllianceRed:
		return compare(red, blue)
	case model.AllianceBlue:
		return compare(blue, red)
	default:
		return NA
	}
}

func compare(own, opp int) Result {
	switch {
	case own > opp:
		return Won
	case own < opp:
		return Lost
	default:
		return Tie
	}
}

// Tally adds one match to r. Alliance comparison is case-insensitive;
// matches on an unrecognized alliance are not counted at all.
func Tally(r model.Record, m model.NormalizedMatch) model.Record {
	red := m.RedScore.EffectiveTotal()
	blue := m.BlueScore.EffectiveTotal()
	var res Result
	switch alliance := string(m.Alliance); {
	case strings.EqualFold(alliance, "red"):
		res = compare(red, blue)
	case strings.EqualFold(alliance, "blue"):
		res = compare(blue, red)
	default:
		return r
	}
	switch res {
	case Won:
		r.Wins++
	case Lost:
		r.Losses++
	default:
		r.Ties++
	}
	return r
}

// EventRecord tallies a single bucket's matches.
func EventRecord(matches []model.NormalizedMatch) model.Record {
	var r model.Record
	for _, m := range matches {
		r = Tally(r, m)
	}
	return r
}

// OverallRecord tallies every match across every bucket. It is recomputed
// on each call.
func OverallRecord(buckets *model.EventBuckets) model.Record {
	return EventRecord(buckets.Matches())
}

// LatestEvent returns the event with the greatest start date. Ties keep the
// earliest in list order; unparseable dates sort oldest.
func LatestEvent(events []model.RawEvent) (model.RawEvent, bool) {
	if len(events) == 0 {
		return model.RawEvent{}, false
	}
	latest := events[0]
	latestAt := latest.StartTime()
	for _, ev := range events[1:] {
		if at := ev.StartTime(); at.After(latestAt) {
			latest, latestAt = ev, at
		}
	}
	return latest, true
}

// CombineSeasonStats overlays the most recently started event's stats on the
// season quick-stats and attaches the raw events. events is not reordered.
func CombineSeasonStats(quick model.QuickStats, events []model.RawEvent) model.SeasonStats {
	out := model.SeasonStats{
		QuickStats: quick,
		Events:     append([]model.RawEvent{}, events...),
	}
	latest, ok := LatestEvent(events)
	if !ok || latest.Stats == nil {
		return out
	}
	es := latest.Stats
	out.HasEventStats = true
	out.Rank = es.Rank
	out.RP = es.RP
	out.TB1 = es.TB1
	out.TB2 = es.TB2
	out.Wins = es.Wins
	out.Losses = es.Losses
	out.Ties = es.Ties
	out.QualMatchesPlayed = es.QualMatchesPlayed
	out.Avg = es.Avg
	out.Max = es.Max
	return out
}

// CategoryRanking is one row of the season rankings table.
type CategoryRanking struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"`
	Of       int     `json:"of"`
}

// Rankings returns the auto, driver-control and endgame rows. Missing
// categories report zero value and rank.
func Rankings(s model.SeasonStats) []CategoryRanking {
	row := func(name string, v *model.StatValue) CategoryRanking {
		r := CategoryRanking{Category: name, Of: s.Count}
		if v != nil {
			r.Value, r.Rank = v.Value, v.Rank
		}
		return r
	}
	return []CategoryRanking{
		row("Auto", s.Auto),
		row("Driver Control", s.DC),
		row("Endgame", s.EG),
	}
}
