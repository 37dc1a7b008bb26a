// Package model contains domain models passed between layers.
package model

import "strings"

// Team is the subject of a lookup as returned by GET /teams/{number}.
type Team struct {
	Number     int    `json:"number"`
	Name       string `json:"name"`
	RookieYear int    `json:"rookieYear"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

// Empty reports whether the upstream returned no usable team payload.
func (t Team) Empty() bool {
	return t.Number == 0
}

// DisplayName falls back to a placeholder when the team has no name on record.
func (t Team) DisplayName() string {
	if strings.TrimSpace(t.Name) == "" {
		return "Unknown Team"
	}
	return t.Name
}

// Location joins the non-empty city, state and country parts.
func (t Team) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.City, t.State, t.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Location Unknown"
	}
	return strings.Join(parts, ", ")
}
