// Package analytics derives chart-ready series from a team's matches.
package analytics

import (
	"fmt"
	"strconv"

	"github.com/okian/ftcscope/internal/domain/model"
	"github.com/okian/ftcscope/internal/domain/stats"
)

// TrendWindow is the moving-average window used by the trend series.
const TrendWindow = 3

// PhaseBreakdown is the stacked per-match auto/teleop series plus a flat
// reference line at the mean no-penalty score.
type PhaseBreakdown struct {
	Title        string    `json:"title"`
	Labels       []string  `json:"labels"`
	Auto         []int     `json:"auto"`
	TeleOp       []int     `json:"teleop"`
	MatchAverage []float64 `json:"matchAverage"`
}

// PhaseDistribution is the season-wide auto vs teleop share.
type PhaseDistribution struct {
	Title         string   `json:"title"`
	Auto          int      `json:"auto"`
	TeleOp        int      `json:"teleop"`
	AutoPercent   float64  `json:"autoPercent"`
	TeleOpPercent float64  `json:"teleopPercent"`
	Labels        []string `json:"labels"`
}

// WinLoss counts outcomes across all matches.
type WinLoss struct {
	Title   string   `json:"title"`
	Wins    int      `json:"wins"`
	Losses  int      `json:"losses"`
	Ties    int      `json:"ties"`
	WinRate string   `json:"winRate"`
	Labels  []string `json:"labels"`
}

// Trend is the own-alliance score per match with its trailing average.
type Trend struct {
	Title        string    `json:"title"`
	Labels       []string  `json:"labels"`
	Scores       []int     `json:"scores"`
	ScoresLabel  string    `json:"scoresLabel"`
	Average      []float64 `json:"average"`
	AverageLabel string    `json:"averageLabel"`
}

// Analytics bundles the four derived views.
type Analytics struct {
	Phases       PhaseBreakdown    `json:"phaseBreakdown"`
	Distribution PhaseDistribution `json:"phaseDistribution"`
	WinLoss      WinLoss           `json:"winLoss"`
	Trend        Trend             `json:"trend"`
}

// Derive computes every series from matches, which must already be in
// bucket-iteration order.
func Derive(matches []model.NormalizedMatch) Analytics {
	return Analytics{
		Phases:       Phases(matches),
		Distribution: Distribution(matches),
		WinLoss:      Results(matches),
		Trend:        Trends(matches),
	}
}

func matchLabels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "Match " + strconv.Itoa(i+1)
	}
	return out
}

// Phases builds the per-match breakdown. Missing own scores contribute 0.
func Phases(matches []model.NormalizedMatch) PhaseBreakdown {
	out := PhaseBreakdown{
		Title:        "Match History Breakdown",
		Labels:       matchLabels(len(matches)),
		Auto:         make([]int, len(matches)),
		TeleOp:       make([]int, len(matches)),
		MatchAverage: make([]float64, len(matches)),
	}
	if len(matches) == 0 {
		return out
	}
	sum := 0
	for i, m := range matches {
		own := m.OwnScore()
		out.Auto[i] = own.Auto()
		out.TeleOp[i] = own.DriverControlled()
		sum += own.NoPenaltyTotal()
	}
	mean := float64(sum) / float64(len(matches))
	for i := range out.MatchAverage {
		out.MatchAverage[i] = mean
	}
	return out
}

// Distribution sums auto and teleop points. When both sums are zero each
// share is reported as 0.0%.
func Distribution(matches []model.NormalizedMatch) PhaseDistribution {
	out := PhaseDistribution{Title: "Scoring Phase Distribution"}
	for _, m := range matches {
		own := m.OwnScore()
		out.Auto += own.Auto()
		out.TeleOp += own.DriverControlled()
	}
	if total := out.Auto + out.TeleOp; total > 0 {
		out.AutoPercent = round1(float64(out.Auto) / float64(total) * 100)
		out.TeleOpPercent = round1(float64(out.TeleOp) / float64(total) * 100)
	}
	out.Labels = []string{
		fmt.Sprintf("Auto (%.1f%%)", out.AutoPercent),
		fmt.Sprintf("TeleOp (%.1f%%)", out.TeleOpPercent),
	}
	return out
}

// Results tallies outcomes with the same rule as stats.OverallRecord. The
// win rate divides by every match, counted or not.
func Results(matches []model.NormalizedMatch) WinLoss {
	r := stats.EventRecord(matches)
	rate := "0.0"
	if len(matches) > 0 {
		rate = strconv.FormatFloat(float64(r.Wins)/float64(len(matches))*100, 'f', 1, 64)
	}
	return WinLoss{
		Title:   "Win/Loss Record (" + rate + "% Win Rate)",
		Wins:    r.Wins,
		Losses:  r.Losses,
		Ties:    r.Ties,
		WinRate: rate,
		Labels: []string{
			fmt.Sprintf("Wins (%d)", r.Wins),
			fmt.Sprintf("Losses (%d)", r.Losses),
			fmt.Sprintf("Ties (%d)", r.Ties),
		},
	}
}

// Trends builds the score line and its trailing average.
func Trends(matches []model.NormalizedMatch) Trend {
	scores := make([]int, len(matches))
	values := make([]float64, len(matches))
	for i, m := range matches {
		scores[i] = m.OwnScore().NoPenaltyTotal()
		values[i] = float64(scores[i])
	}
	return Trend{
		Title:        "Performance Trends",
		Labels:       matchLabels(len(matches)),
		Scores:       scores,
		ScoresLabel:  "Match Score",
		Average:      MovingAverage(values, TrendWindow),
		AverageLabel: strconv.Itoa(TrendWindow) + "-Match Average",
	}
}

// MovingAverage returns the trailing mean over [max(0, i-window+1), i] for
// each i. Early points use a shorter window. A window below 1 is treated
// as 1.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := min(i+1, window)
		out[i] = sum / float64(n)
	}
	return out
}

func round1(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return f
}
