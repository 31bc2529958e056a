package models

import (
	"fmt"
	"time"
)

// Region is the geographic home of a series.
type Region string

const (
	RegionEU            Region = "EU"
	RegionNA            Region = "NA"
	RegionKorea         Region = "Korea"
	RegionChina         Region = "China"
	RegionTaiwan        Region = "Taiwan"
	RegionBrazil        Region = "Brazil"
	RegionAsiaPacific   Region = "Asia Pacific"
	RegionSoutheastAsia Region = "Southeast Asia"
	RegionInternational Region = "International"
	RegionUnknown       Region = "Unknown"
)

// UnknownTeam is the current team of a player with no regional result.
const UnknownTeam = "Unknown"

// Role is a normalised in-game position.
type Role string

const (
	RoleTop     Role = "top"
	RoleJungle  Role = "jungle"
	RoleMid     Role = "mid"
	RoleBot     Role = "bot"
	RoleSupport Role = "support"
)

// Mode is one of the parallel daily games.
type Mode string

const (
	ModeAll   Mode = "ALL"
	ModeHard  Mode = "ALL_HARD"
	ModeEU    Mode = "EU"
	ModeNA    Mode = "NA"
	ModeChina Mode = "CH"
	ModeKorea Mode = "KR"
)

// AllModes lists every mode a daily record carries, in selection order.
var AllModes = []Mode{ModeAll, ModeHard, ModeEU, ModeNA, ModeChina, ModeKorea}

// ParseMode validates a client supplied mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// LockedRegion returns the region a mode is restricted to, or "" for the
// modes that accept any non-International region.
func (m Mode) LockedRegion() Region {
	switch m {
	case ModeEU:
		return RegionEU
	case ModeNA:
		return RegionNA
	case ModeChina:
		return RegionChina
	case ModeKorea:
		return RegionKorea
	default:
		return ""
	}
}

// Recent reports whether the candidate pool is bounded to recent tournaments.
// Hard mode is the only unbounded one.
func (m Mode) Recent() bool {
	return m != ModeHard
}

// Hint is the per-attribute verdict of a guess.
type Hint int

const (
	HintIncorrect Hint = iota
	HintCorrect
	HintPartial
	HintCorrectIsHigher
	HintCorrectIsLower
	HintNeutral
)

func (h Hint) String() string {
	switch h {
	case HintCorrect:
		return "CORRECT"
	case HintPartial:
		return "PARTIAL"
	case HintIncorrect:
		return "INCORRECT"
	case HintCorrectIsHigher:
		return "CORRECT_IS_HIGHER"
	case HintCorrectIsLower:
		return "CORRECT_IS_LOWER"
	case HintNeutral:
		return "NEUTRAL"
	default:
		return fmt.Sprintf("Hint(%d)", int(h))
	}
}

func (h Hint) MarshalText() ([]byte, error) {
	switch h {
	case HintCorrect, HintPartial, HintIncorrect, HintCorrectIsHigher, HintCorrectIsLower, HintNeutral:
		return []byte(h.String()), nil
	default:
		return nil, fmt.Errorf("invalid hint %d", int(h))
	}
}

func (h *Hint) UnmarshalText(b []byte) error {
	for _, candidate := range []Hint{HintCorrect, HintPartial, HintIncorrect, HintCorrectIsHigher, HintCorrectIsLower, HintNeutral} {
		if candidate.String() == string(b) {
			*h = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid hint %q", string(b))
}

// GuessHint pairs a verdict with the guessed player's own value.
type GuessHint struct {
	Hint    Hint   `json:"hint"`
	Details string `json:"details"`
}

// GuessResult is the full feedback for one guess.
type GuessResult struct {
	Guess               string    `json:"guess"`
	Overall             bool      `json:"overall"`
	Region              GuessHint `json:"region"`
	Team                GuessHint `json:"team"`
	Role                GuessHint `json:"role"`
	Nationality         GuessHint `json:"nationality"`
	Debut               GuessHint `json:"debut"`
	GreatestAchievement GuessHint `json:"greatest_achievement"`
}

// Achievement is the best scoring result of a player's career.
type Achievement struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// PlayerProfile is the comparable summary of a player's career. It is built
// per request and never mutated.
type PlayerProfile struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	CurrentRegion       Region      `json:"current_region"`
	HistoricRegions     []Region    `json:"historic_regions"`
	CurrentTeam         string      `json:"current_team"`
	HistoricTeams       []string    `json:"historic_teams"`
	Roles               []Role      `json:"roles"`
	Nationalities       []string    `json:"nationalities"`
	Debut               time.Time   `json:"debut"`
	GreatestAchievement Achievement `json:"greatest_achievement"`
}

// Hints are the three facts revealed progressively during a game.
type Hints struct {
	Tournament string `json:"tournament"`
	Team       string `json:"team"`
	Teammate   string `json:"teammate"`
}

// ModeAnswer is the hidden answer of one mode for one day.
type ModeAnswer struct {
	AnswerPlayerID string `json:"answer_player_id"`
	Hints          Hints  `json:"hints"`
}

// DailyAnswerRecord holds every mode's answer for one calendar day.
// Date is the ISO day key ("2025-01-01").
type DailyAnswerRecord struct {
	Date  string              `json:"date"`
	Modes map[Mode]ModeAnswer `json:"modes"`
}

// DayKeyLayout formats day keys.
const DayKeyLayout = "2006-01-02"

// DayKey returns the day key of t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}
