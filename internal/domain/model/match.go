package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Alliance is the canonical, upper-case alliance colour stored on a
// NormalizedMatch.
type Alliance string

// Canonical alliance values.
const (
	AllianceRed  Alliance = "RED"
	AllianceBlue Alliance = "BLUE"
)

// ParseAlliance maps an upstream alliance string ("Red", "blue", ...) onto
// its canonical form. Unrecognized values are upper-cased and returned with
// ok=false so the caller can keep them for display.
func ParseAlliance(s string) (Alliance, bool) {
	up := strings.ToUpper(strings.TrimSpace(s))
	switch Alliance(up) {
	case AllianceRed:
		return AllianceRed, true
	case AllianceBlue:
		return AllianceBlue, true
	default:
		return Alliance(up), false
	}
}

// Station is the driver station a team occupied. The upstream encodes it
// either as a number or as a word ("One", "Two").
type Station string

// UnmarshalJSON accepts numbers and strings.
func (s *Station) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Station(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Station(n.String())
	return nil
}

// Participant is one team entry inside a RawMatch.
type Participant struct {
	TeamNumber int     `json:"teamNumber"`
	Alliance   string  `json:"alliance"`
	Station    Station `json:"station"`
	Surrogate  bool    `json:"surrogate"`
	NoShow     bool    `json:"noShow"`
	DQ         bool    `json:"dq"`
}

// AllianceScore is one alliance's score object. TotalPoints and TotalPointsNp
// are optional; use EffectiveTotal for record computations.
type AllianceScore struct {
	AutoPoints    int  `json:"autoPoints"`
	DcPoints      int  `json:"dcPoints"`
	TotalPoints   *int `json:"totalPoints,omitempty"`
	TotalPointsNp *int `json:"totalPointsNp,omitempty"`
}

// EffectiveTotal is totalPointsNp when present, else totalPoints, else 0.
// A nil score counts as 0.
func (s *AllianceScore) EffectiveTotal() int {
	switch {
	case s == nil:
		return 0
	case s.TotalPointsNp != nil:
		return *s.TotalPointsNp
	case s.TotalPoints != nil:
		return *s.TotalPoints
	default:
		return 0
	}
}

// NoPenaltyTotal is totalPointsNp, or 0 when absent.
func (s *AllianceScore) NoPenaltyTotal() int {
	if s == nil || s.TotalPointsNp == nil {
		return 0
	}
	return *s.TotalPointsNp
}

// Auto returns autoPoints, or 0 for a nil score.
func (s *AllianceScore) Auto() int {
	if s == nil {
		return 0
	}
	return s.AutoPoints
}

// DriverControlled returns dcPoints, or 0 for a nil score.
func (s *AllianceScore) DriverControlled() int {
	if s == nil {
		return 0
	}
	return s.DcPoints
}

// MatchScores holds both alliances' scores. Either side may be missing for
// matches that have not been played.
type MatchScores struct {
	Red  *AllianceScore `json:"red"`
	Blue *AllianceScore `json:"blue"`
}

// RawMatch is a match record returned by GET /events/{season}/{code}/matches.
type RawMatch struct {
	ID              int           `json:"id"`
	TournamentLevel string        `json:"tournamentLevel"`
	Teams           []Participant `json:"teams"`
	Scores          *MatchScores  `json:"scores"`
}

// Participant returns the entry for team, if the team played in the match.
func (m RawMatch) Participant(team int) (Participant, bool) {
	for _, p := range m.Teams {
		if p.TeamNumber == team {
			return p, true
		}
	}
	return Participant{}, false
}

// Tournament level names. The short names are what the events endpoint
// reports; the long names appear on older seasons.
const (
	LevelQuals         = "Quals"
	LevelSemis         = "Semis"
	LevelFinals        = "Finals"
	LevelQualification = "QUALIFICATION"
	LevelSemifinal     = "SEMIFINAL"
	LevelFinal         = "FINAL"
)

// unknownLevelRank places unrecognized tournament levels after finals.
const unknownLevelRank = 3

// LevelRank orders tournament levels: Quals=0 < Semis=1 < Finals=2.
func LevelRank(level string) int {
	switch level {
	case LevelQuals, LevelQualification:
		return 0
	case LevelSemis, LevelSemifinal:
		return 1
	case LevelFinals, LevelFinal:
		return 2
	default:
		return unknownLevelRank
	}
}

// MatchTypeAbbrev is the short label printed on a match card.
func MatchTypeAbbrev(level string) string {
	switch level {
	case LevelQuals, LevelQualification:
		return "Q"
	case LevelSemis, LevelSemifinal:
		return "SF"
	case LevelFinals, LevelFinal:
		return "F"
	default:
		return level
	}
}

// AllianceTeams partitions a match's participants by alliance.
type AllianceTeams struct {
	Red  []Participant `json:"red"`
	Blue []Participant `json:"blue"`
}

// NormalizedMatch is one match seen from the looked-up team's perspective.
type NormalizedMatch struct {
	MatchNumber int            `json:"matchNumber"`
	MatchType   string         `json:"matchType"`
	Alliance    Alliance       `json:"alliance"`
	Station     Station        `json:"station"`
	RedScore    *AllianceScore `json:"redScore"`
	BlueScore   *AllianceScore `json:"blueScore"`
	Surrogate   bool           `json:"surrogate"`
	NoShow      bool           `json:"noShow"`
	DQ          bool           `json:"dq"`
	Teams       AllianceTeams  `json:"teams"`
}

// Label is the match card heading, e.g. "Q-12".
func (m NormalizedMatch) Label() string {
	return MatchTypeAbbrev(m.MatchType) + "-" + strconv.Itoa(m.MatchNumber)
}

// OwnScore is the score object of the team's own alliance, nil when the
// alliance is unrecognized or the score is missing.
func (m NormalizedMatch) OwnScore() *AllianceScore {
	switch m.Alliance {
	case AllianceRed:
		return m.RedScore
	case AllianceBlue:
		return m.BlueScore
	default:
		return nil
	}
}
