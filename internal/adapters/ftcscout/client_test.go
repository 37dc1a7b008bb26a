package ftcscout_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/okian/ftcscope/internal/adapters/cache"
	"github.com/okian/ftcscope/internal/adapters/ftcscout"
	. "github.com/smartystreets/goconvey/convey"
)

const matchesJSON = `[
  {"id": 3, "tournamentLevel": "Quals",
   "teams": [
     {"teamNumber": 12345, "alliance": "Red", "station": 1, "surrogate": false, "noShow": false, "dq": false},
     {"teamNumber": 222, "alliance": "Blue", "station": "Two", "surrogate": false, "noShow": false, "dq": false}
   ],
   "scores": {"red": {"autoPoints": 10, "dcPoints": 20, "totalPoints": 35, "totalPointsNp": 30},
              "blue": {"autoPoints": 5, "dcPoints": 15, "totalPoints": 20}}}
]`

func newUpstream(hits *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams/12345", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"number":12345,"name":"Gearheads","rookieYear":2019,"city":"Austin","state":"TX","country":"USA"}`))
	})
	mux.HandleFunc("/teams/99999", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`null`))
	})
	mux.HandleFunc("/teams/404", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/teams/12345/events/2024", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[{"eventCode":"USTXCMP","name":"Texas Championship","startDate":"2024-03-01","endDate":"2024-03-02","location":{"city":"Austin","state":"TX"},"stats":{"rank":4,"rp":2.5,"tb1":100,"tb2":20,"wins":5,"losses":1,"ties":0}}]`))
	})
	mux.HandleFunc("/events/2024/USTXCMP/matches", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(matchesJSON))
	})
	mux.HandleFunc("/events/2024/BROKEN/matches", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	})
	mux.HandleFunc("/teams/12345/quick-stats", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("season") != "2024" {
			http.Error(w, "bad season", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"season":2024,"number":12345,"tot":{"value":120.5,"rank":10},"auto":{"value":30,"rank":12},"dc":{"value":70,"rank":8},"eg":{"value":20.5,"rank":40},"count":500}`))
	})
	return httptest.NewServer(mux)
}

func newClient(base string) *ftcscout.Client {
	c := cache.New(ftcscout.NewTransport())
	return ftcscout.New(c, ftcscout.WithBaseURL(base))
}

func TestClient_Endpoints(t *testing.T) {
	Convey("Given a client pointed at a fake upstream", t, func() {
		var hits atomic.Int64
		srv := newUpstream(&hits)
		defer srv.Close()
		client := newClient(srv.URL + "/")
		ctx := context.Background()

		Convey("Then URLs follow the REST layout", func() {
			So(client.BaseURL(), ShouldEqual, srv.URL)
			So(client.TeamURL(1), ShouldEqual, srv.URL+"/teams/1")
			So(client.TeamEventsURL(1, 2024), ShouldEqual, srv.URL+"/teams/1/events/2024")
			So(client.EventMatchesURL(2024, "USTXCMP"), ShouldEqual, srv.URL+"/events/2024/USTXCMP/matches")
			So(client.QuickStatsURL(1, 2024), ShouldEqual, srv.URL+"/teams/1/quick-stats?season=2024")
		})

		Convey("When fetching a team", func() {
			team, err := client.Team(ctx, 12345)

			Convey("Then the payload is decoded", func() {
				So(err, ShouldBeNil)
				So(team.Number, ShouldEqual, 12345)
				So(team.Name, ShouldEqual, "Gearheads")
				So(team.RookieYear, ShouldEqual, 2019)
				So(team.Location(), ShouldEqual, "Austin, TX, USA")
			})

			Convey("And a second fetch is served from the cache", func() {
				_, err := client.Team(ctx, 12345)
				So(err, ShouldBeNil)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the team payload is empty", func() {
			_, err := client.Team(ctx, 99999)

			Convey("Then a NotFoundError is returned", func() {
				var nf *ftcscout.NotFoundError
				So(errors.As(err, &nf), ShouldBeTrue)
				So(errors.Is(err, ftcscout.ErrNotFound), ShouldBeTrue)
				So(errors.Is(err, ftcscout.ErrFetch), ShouldBeFalse)
			})
		})

		Convey("When the upstream answers 404", func() {
			_, err := client.Team(ctx, 404)

			Convey("Then a FetchError carrying the status is returned", func() {
				var fe *ftcscout.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.StatusCode, ShouldEqual, http.StatusNotFound)
				So(errors.Is(err, ftcscout.ErrFetch), ShouldBeTrue)
				So(errors.Is(err, ftcscout.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When fetching team events", func() {
			events, err := client.TeamEvents(ctx, 12345, 2024)

			Convey("Then events and their stats are decoded", func() {
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].EventCode, ShouldEqual, "USTXCMP")
				So(events[0].Location.String(), ShouldEqual, "Austin, TX")
				So(events[0].Stats, ShouldNotBeNil)
				So(events[0].Stats.Rank, ShouldEqual, 4)
				So(events[0].Stats.RP, ShouldEqual, 2.5)
			})
		})

		Convey("When fetching event matches", func() {
			matches, err := client.EventMatches(ctx, 2024, "USTXCMP")

			Convey("Then participants and scores are decoded", func() {
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, 1)
				So(matches[0].ID, ShouldEqual, 3)
				So(string(matches[0].Teams[0].Station), ShouldEqual, "1")
				So(string(matches[0].Teams[1].Station), ShouldEqual, "Two")
				So(matches[0].Scores.Red.EffectiveTotal(), ShouldEqual, 30)
				So(matches[0].Scores.Blue.EffectiveTotal(), ShouldEqual, 20)
			})
		})

		Convey("When the matches payload has the wrong shape", func() {
			_, err := client.EventMatches(ctx, 2024, "BROKEN")

			Convey("Then a FetchError is returned", func() {
				So(errors.Is(err, ftcscout.ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When fetching quick stats", func() {
			qs, err := client.QuickStats(ctx, 12345, 2024)

			Convey("Then the season query is sent and stats decoded", func() {
				So(err, ShouldBeNil)
				So(qs.Count, ShouldEqual, 500)
				So(qs.Auto.Rank, ShouldEqual, 12)
				So(qs.DC.Value, ShouldEqual, 70)
				So(qs.EG.Value, ShouldEqual, 20.5)
			})
		})

		Convey("When an event has never been seen upstream", func() {
			_, err := client.EventMatches(ctx, 2024, "NOPE")

			Convey("Then the failure is reported as a fetch error", func() {
				var fe *ftcscout.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestClient_NoGetter(t *testing.T) {
	Convey("Given a client without a getter", t, func() {
		client := ftcscout.New(nil)

		Convey("Then every call fails with a fetch error", func() {
			_, err := client.Team(context.Background(), 1)
			So(errors.Is(err, ftcscout.ErrFetch), ShouldBeTrue)
		})
	})
}
