package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts are the start/end date formats seen on the events endpoint.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// EventLocation describes where an event takes place. The upstream sends
// either a structured object or a plain string; the latter lands in Venue.
type EventLocation struct {
	Venue   string `json:"venue,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// UnmarshalJSON accepts both the object and the string form.
func (l *EventLocation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = EventLocation{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = EventLocation{Venue: s}
		return nil
	}
	type plain EventLocation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = EventLocation(p)
	return nil
}

// String renders the location for display.
func (l EventLocation) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{l.Venue, l.City, l.State, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// PhasePoints is a per-phase point breakdown used for averages and maxima.
type PhasePoints struct {
	AutoPoints    float64 `json:"autoPoints"`
	DcPoints      float64 `json:"dcPoints"`
	TotalPoints   float64 `json:"totalPoints"`
	TotalPointsNp float64 `json:"totalPointsNp"`
}

// EventStats is a team's ranking data at a single event. The zero value is
// the default applied to events that report no stats.
type EventStats struct {
	Rank   int     `json:"rank"`
	RP     float64 `json:"rp"`
	TB1    float64 `json:"tb1"`
	TB2    float64 `json:"tb2"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Ties   int     `json:"ties"`

	QualMatchesPlayed int          `json:"qualMatchesPlayed,omitempty"`
	Avg               *PhasePoints `json:"avg,omitempty"`
	Max               *PhasePoints `json:"max,omitempty"`
}

// RawEvent is the event descriptor returned by GET /teams/{number}/events/{season}.
type RawEvent struct {
	EventCode string        `json:"eventCode"`
	Name      string        `json:"name"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Location  EventLocation `json:"location"`
	Stats     *EventStats   `json:"stats,omitempty"`
}

// StartTime parses StartDate. Unparseable or missing dates yield the zero time.
func (e RawEvent) StartTime() time.Time {
	return parseDate(e.StartDate)
}

// StatsOrZero returns the event stats, defaulting to the zero record.
func (e RawEvent) StatsOrZero() EventStats {
	if e.Stats == nil {
		return EventStats{}
	}
	return *e.Stats
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
