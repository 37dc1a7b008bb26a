package lookupcli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	service "github.com/okian/ftcscope/internal/app"
	"github.com/okian/ftcscope/internal/domain/model"
)

// Render writes a plain-text dashboard for res.
func Render(w io.Writer, res *service.Lookup) error {
	p := &printer{w: w}

	t := res.Team
	p.printf("Team %d - %s\n", t.Number, t.DisplayName())
	rookie := "unknown"
	if t.RookieYear > 0 {
		rookie = strconv.Itoa(t.RookieYear)
	}
	p.printf("%s | Rookie year %s\n", t.Location(), rookie)
	p.printf("Season %d (available: %s)\n\n", res.Season, joinInts(res.Seasons))

	if len(res.Events) == 0 {
		p.printf("No events found for the %d season.\n", res.Season)
		return p.err
	}

	r := res.Record
	p.printf("Record: %d-%d-%d (%d matches)\n", r.Wins, r.Losses, r.Ties, r.Total())
	renderStats(p, res.Stats)

	if len(res.Rankings) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		p.printf("\nCategory rankings:\n")
		for _, cr := range res.Rankings {
			_, _ = fmt.Fprintf(tw, "  %s\t%.1f\t#%d of %d\n", cr.Category, cr.Value, cr.Rank, cr.Of)
		}
		if err := tw.Flush(); err != nil && p.err == nil {
			p.err = err
		}
	}

	for _, ev := range res.Events {
		renderEvent(p, ev)
	}

	a := res.Analytics
	p.printf("\nAnalytics:\n")
	p.printf("  %s\n", a.WinLoss.Title)
	p.printf("  Scoring split: %s\n", strings.Join(a.Distribution.Labels, ", "))
	if n := len(a.Trend.Average); n > 0 {
		p.printf("  %s (latest): %.1f\n", a.Trend.AverageLabel, a.Trend.Average[n-1])
	}
	return p.err
}

func renderStats(p *printer, s model.SeasonStats) {
	if s.Tot != nil {
		p.printf("OPR: %.1f (#%d of %d)\n", s.Tot.Value, s.Tot.Rank, s.Count)
	}
	if s.HasEventStats {
		p.printf("Latest event: rank %d, RP %.2f, TB1 %.1f, TB2 %.1f\n", s.Rank, s.RP, s.TB1, s.TB2)
	}
}

func renderEvent(p *printer, ev service.EventResult) {
	d := ev.Details
	p.printf("\n[%s] %s  %s", ev.Code, d.Name, d.StartDate)
	if loc := d.Location.String(); loc != "" {
		p.printf("  %s", loc)
	}
	p.printf("\n  Record %d-%d-%d\n", ev.Record.Wins, ev.Record.Losses, ev.Record.Ties)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	for _, m := range ev.Matches {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", m.Label, m.Alliance, score(m.NormalizedMatch), m.Result)
	}
	if err := tw.Flush(); err != nil && p.err == nil {
		p.err = err
	}
}

// score renders "own-opponent" from the team's point of view.
func score(m model.NormalizedMatch) string {
	own, opp := m.RedScore, m.BlueScore
	if m.Alliance == model.AllianceBlue {
		own, opp = opp, own
	}
	if own == nil || opp == nil {
		return "n/a"
	}
	return strconv.Itoa(own.EffectiveTotal()) + "-" + strconv.Itoa(opp.EffectiveTotal())
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
