package normalize_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/ftcscope/internal/domain/model"
	"github.com/okian/ftcscope/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

const team = 12345

// stubSource serves canned matches per event code and records call order.
type stubSource struct {
	matches map[string][]model.RawMatch
	errs    map[string]error
	calls   []string
	onCall  func(code string)
}

func (s *stubSource) EventMatches(_ context.Context, _ int, code string) ([]model.RawMatch, error) {
	s.calls = append(s.calls, code)
	if s.onCall != nil {
		s.onCall(code)
	}
	if err, ok := s.errs[code]; ok {
		return nil, err
	}
	return s.matches[code], nil
}

func intp(v int) *int { return &v }

func rawMatch(id int, level string, teams ...model.Participant) model.RawMatch {
	return model.RawMatch{
		ID:              id,
		TournamentLevel: level,
		Teams:           teams,
		Scores: &model.MatchScores{
			Red:  &model.AllianceScore{AutoPoints: 10, DcPoints: 20, TotalPointsNp: intp(30)},
			Blue: &model.AllianceScore{AutoPoints: 5, DcPoints: 10, TotalPointsNp: intp(15)},
		},
	}
}

func red(n int) model.Participant  { return model.Participant{TeamNumber: n, Alliance: "Red", Station: "1"} }
func blue(n int) model.Participant { return model.Participant{TeamNumber: n, Alliance: "Blue", Station: "2"} }

func TestNormalizer_Normalize(t *testing.T) {
	Convey("Given a season with two events where the team played at the first", t, func() {
		ctx := context.Background()
		events := []model.RawEvent{
			{EventCode: "E1", Name: "Event One", StartDate: "2024-01-01"},
			{EventCode: "E2", Name: "Event Two", StartDate: "2024-02-01"},
		}
		src := &stubSource{matches: map[string][]model.RawMatch{
			"E1": {
				rawMatch(7, model.LevelQuals, red(team), blue(222)),
				rawMatch(2, model.LevelQuals, red(111), blue(team)),
				rawMatch(9, model.LevelQuals, red(111), blue(222)),
			},
			"E2": {
				rawMatch(1, model.LevelQuals, red(111), blue(222)),
			},
		}}
		n := normalize.New(src)

		Convey("When normalizing", func() {
			buckets, err := n.Normalize(ctx, team, 2024, events)

			Convey("Then exactly one bucket keyed E1 holds the team's two matches", func() {
				So(err, ShouldBeNil)
				So(buckets.Len(), ShouldEqual, 1)
				So(buckets.Codes(), ShouldResemble, []string{"E1"})
				b, ok := buckets.Get("E1")
				So(ok, ShouldBeTrue)
				So(len(b.Matches), ShouldEqual, 2)
				So(b.Matches[0].MatchNumber, ShouldEqual, 2)
				So(b.Matches[1].MatchNumber, ShouldEqual, 7)
			})

			Convey("And the event without team matches is absent, not empty", func() {
				_, ok := buckets.Get("E2")
				So(ok, ShouldBeFalse)
			})

			Convey("And missing event stats default to the zero record", func() {
				b, _ := buckets.Get("E1")
				So(b.Details.Name, ShouldEqual, "Event One")
				So(b.Details.Stats, ShouldResemble, model.EventStats{})
			})

			Convey("And events are fetched sequentially in input order", func() {
				So(src.calls, ShouldResemble, []string{"E1", "E2"})
			})
		})
	})

	Convey("Given an event whose match fetch fails", t, func() {
		events := []model.RawEvent{{EventCode: "BAD"}, {EventCode: "OK"}}
		src := &stubSource{
			matches: map[string][]model.RawMatch{"OK": {rawMatch(1, model.LevelQuals, red(team))}},
			errs:    map[string]error{"BAD": errors.New("status 500")},
		}

		Convey("When normalizing", func() {
			buckets, err := normalize.New(src).Normalize(context.Background(), team, 2024, events)

			Convey("Then the failing event is skipped and the rest processed", func() {
				So(err, ShouldBeNil)
				So(buckets.Codes(), ShouldResemble, []string{"OK"})
			})
		})
	})

	Convey("Given a context cancelled mid-run", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		events := []model.RawEvent{{EventCode: "E1"}, {EventCode: "E2"}}
		src := &stubSource{
			matches: map[string][]model.RawMatch{"E1": {rawMatch(1, model.LevelQuals, red(team))}},
			onCall:  func(string) { cancel() },
		}

		Convey("When normalizing", func() {
			buckets, err := normalize.New(src).Normalize(ctx, team, 2024, events)

			Convey("Then the run aborts with the context error", func() {
				So(buckets, ShouldBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(src.calls, ShouldResemble, []string{"E1"})
			})
		})
	})

	Convey("Given events with stats and matches across tournament levels", t, func() {
		stats := &model.EventStats{Rank: 3, RP: 2.25, Wins: 4, Losses: 1}
		events := []model.RawEvent{{EventCode: "CMP", Stats: stats}}
		src := &stubSource{matches: map[string][]model.RawMatch{"CMP": {
			rawMatch(1, model.LevelFinals, red(team)),
			rawMatch(12, model.LevelQuals, red(team)),
			rawMatch(2, model.LevelSemis, blue(team)),
			rawMatch(3, model.LevelQuals, blue(team)),
			rawMatch(1, model.LevelSemis, red(team)),
		}}}

		Convey("When normalizing", func() {
			buckets, _ := normalize.New(src).Normalize(context.Background(), team, 2024, events)
			b, _ := buckets.Get("CMP")

			Convey("Then matches are non-decreasing by (level rank, number)", func() {
				got := make([]string, len(b.Matches))
				for i, m := range b.Matches {
					got[i] = m.Label()
				}
				So(got, ShouldResemble, []string{"Q-3", "Q-12", "SF-1", "SF-2", "F-1"})
			})

			Convey("And event stats are attached", func() {
				So(b.Details.Stats.Rank, ShouldEqual, 3)
				So(b.Details.Stats.RP, ShouldEqual, 2.25)
			})
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given a raw match the team played on blue", t, func() {
		p := model.Participant{TeamNumber: team, Alliance: "Blue", Station: "Two", Surrogate: true, NoShow: false, DQ: true}
		raw := rawMatch(14, model.LevelQuals, red(1), red(2), p, blue(3))

		Convey("When normalizing it", func() {
			nm, ok := normalize.Match(raw, team)

			Convey("Then participant flags and canonical alliance are extracted", func() {
				So(ok, ShouldBeTrue)
				So(nm.MatchNumber, ShouldEqual, 14)
				So(nm.MatchType, ShouldEqual, model.LevelQuals)
				So(nm.Alliance, ShouldEqual, model.AllianceBlue)
				So(nm.Station, ShouldEqual, model.Station("Two"))
				So(nm.Surrogate, ShouldBeTrue)
				So(nm.NoShow, ShouldBeFalse)
				So(nm.DQ, ShouldBeTrue)
			})

			Convey("And both alliance scores are carried unmodified", func() {
				So(nm.RedScore, ShouldEqual, raw.Scores.Red)
				So(nm.BlueScore, ShouldEqual, raw.Scores.Blue)
			})

			Convey("And participants are partitioned by alliance", func() {
				So(len(nm.Teams.Red), ShouldEqual, 2)
				So(len(nm.Teams.Blue), ShouldEqual, 2)
				So(nm.Teams.Blue[0].TeamNumber, ShouldEqual, team)
			})
		})
	})

	Convey("Given a match the team did not play", t, func() {
		_, ok := normalize.Match(rawMatch(1, model.LevelQuals, red(1), blue(2)), team)

		Convey("Then it is rejected", func() {
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a match without scores", t, func() {
		raw := model.RawMatch{ID: 5, TournamentLevel: model.LevelQuals, Teams: []model.Participant{red(team)}}
		nm, ok := normalize.Match(raw, team)

		Convey("Then both scores are nil", func() {
			So(ok, ShouldBeTrue)
			So(nm.RedScore, ShouldBeNil)
			So(nm.BlueScore, ShouldBeNil)
		})
	})
}
