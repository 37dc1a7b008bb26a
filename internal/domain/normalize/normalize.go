// Package normalize turns raw event match lists into per-team event buckets.
package normalize

import (
	"context"
	"sort"

	"github.com/okian/ftcscope/internal/domain/model"
	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
)

// MatchSource fetches every match played at an event.
type MatchSource interface {
	EventMatches(ctx context.Context, season int, eventCode string) ([]model.RawMatch, error)
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// Normalizer builds EventBuckets for one team. Events are processed one at
// a time in input order, which fixes the bucket order of the result.
type Normalizer struct {
	source MatchSource
	logger logger.Logger
}

// New creates a Normalizer reading matches from source.
func New(source MatchSource, opts ...Option) *Normalizer {
	n := &Normalizer{source: source}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Default().Named("normalize")
	}
	return n
}

// Normalize fetches each event's matches and keeps the ones team played.
// A failed event fetch skips that event; only context cancellation aborts
// the whole run. Events where the team played no match are left out.
func (n *Normalizer) Normalize(ctx context.Context, team, season int, events []model.RawEvent) (*model.EventBuckets, error) {
	buckets := model.NewEventBuckets()
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := n.source.EventMatches(ctx, season, ev.EventCode)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			metrics.RecordEventSkipped()
			n.logger.Warn(ctx, "skipping event",
				logger.String("event", ev.EventCode),
				logger.Int("season", season),
				logger.Error(err),
			)
			continue
		}
		bucket, ok := Bucket(ev, raw, team)
		if !ok {
			n.logger.Debug(ctx, "team played no matches at event",
				logger.String("event", ev.EventCode),
				logger.Int("team", team),
			)
			continue
		}
		buckets.Put(ev.EventCode, bucket)
	}
	return buckets, nil
}

// Bucket builds the sorted bucket for team at ev. It reports false when the
// team played none of the matches.
func Bucket(ev model.RawEvent, raw []model.RawMatch, team int) (model.EventBucket, bool) {
	matches := make([]model.NormalizedMatch, 0, len(raw))
	for _, m := range raw {
		if nm, ok := Match(m, team); ok {
			matches = append(matches, nm)
		}
	}
	if len(matches) == 0 {
		return model.EventBucket{}, false
	}
	Sort(matches)
	return model.EventBucket{
		Details: model.EventDetails{
			Name:      ev.Name,
			StartDate: ev.StartDate,
			EndDate:   ev.EndDate,
			Location:  ev.Location,
			Stats:     ev.StatsOrZero(),
		},
		Matches: matches,
	}, true
}

// Match reshapes m from team's point of view. It reports false when team is
// not among the participants.
func Match(m model.RawMatch, team int) (model.NormalizedMatch, bool) {
	p, ok := m.Participant(team)
	if !ok {
		return model.NormalizedMatch{}, false
	}
	alliance, _ := model.ParseAlliance(p.Alliance)

	nm := model.NormalizedMatch{
		MatchNumber: m.ID,
		MatchType:   m.TournamentLevel,
		Alliance:    alliance,
		Station:     p.Station,
		Surrogate:   p.Surrogate,
		NoShow:      p.NoShow,
		DQ:          p.DQ,
		Teams:       partition(m.Teams),
	}
	if m.Scores != nil {
		nm.RedScore = m.Scores.Red
		nm.BlueScore = m.Scores.Blue
	}
	return nm, true
}

func partition(teams []model.Participant) model.AllianceTeams {
	out := model.AllianceTeams{
		Red:  []model.Participant{},
		Blue: []model.Participant{},
	}
	for _, t := range teams {
		switch a, _ := model.ParseAlliance(t.Alliance); a {
		case model.AllianceRed:
			out.Red = append(out.Red, t)
		case model.AllianceBlue:
			out.Blue = append(out.Blue, t)
		}
	}
	return out
}

// Sort orders matches by tournament level rank, then match number.
func Sort(matches []model.NormalizedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		ri, rj := model.LevelRank(matches[i].MatchType), model.LevelRank(matches[j].MatchType)
		if ri != rj {
			return ri < rj
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
}
