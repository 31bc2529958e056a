package models

import (
	"fmt"
	"time"
)

// Dump is the JSON export produced by the scraper and loaded by the import
// command. Field names follow the scraper's path-based naming.
type Dump struct {
	Players     []DumpPlayer     `json:"players"`
	Teams       []DumpTeam       `json:"teams"`
	Tournaments []DumpTournament `json:"tournaments"`
	Results     []DumpResult     `json:"results"`
}

type DumpPlayer struct {
	PathName      string   `json:"path_name"`
	Name          string   `json:"name"`
	Roles         []string `json:"roles"`
	Nationalities []string `json:"nationalities"`
}

type DumpTeam struct {
	PathName string `json:"path_name"`
	Name     string `json:"name"`
}

type DumpTournament struct {
	PathName  string `json:"path_name"`
	Name      string `json:"name"`
	Series    string `json:"series"`
	Region    string `json:"region"`
	Tier      int    `json:"tier"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (t *DumpTournament) UnmarshalJSON(data []byte) error {
	type alias DumpTournament
	return flexUnmarshal(data, (*alias)(t))
}

// Record converts the dump row into a Tournament.
func (t DumpTournament) Record() (Tournament, error) {
	start, err := time.Parse(DayKeyLayout, t.StartDate)
	if err != nil {
		return Tournament{}, fmt.Errorf("tournament %s start date: %w", t.PathName, err)
	}
	end, err := time.Parse(DayKeyLayout, t.EndDate)
	if err != nil {
		return Tournament{}, fmt.Errorf("tournament %s end date: %w", t.PathName, err)
	}
	return Tournament{
		ID:        t.PathName,
		Name:      t.Name,
		Series:    t.Series,
		Region:    Region(t.Region),
		Tier:      t.Tier,
		StartDate: start,
		EndDate:   end,
	}, nil
}

type DumpResult struct {
	TournamentPath   string   `json:"tournament_path"`
	PlayerPath       string   `json:"player_path"`
	TeamPath         string   `json:"team_path"`
	Position         *string  `json:"position"`
	BeatPercent      *int     `json:"beat_percent"`
	LiquipediaWeight *float64 `json:"liquipedia_weight"`
}

func (r *DumpResult) UnmarshalJSON(data []byte) error {
	type alias DumpResult
	return flexUnmarshal(data, (*alias)(r))
}

func (r DumpResult) Record() TournamentResult {
	return TournamentResult{
		TournamentID: r.TournamentPath,
		PlayerID:     r.PlayerPath,
		TeamID:       r.TeamPath,
		Position:     r.Position,
		BeatPercent:  r.BeatPercent,
		TierWeight:   r.LiquipediaWeight,
	}
}

func (p DumpPlayer) Record() Player {
	return Player{ID: p.PathName, Name: p.Name, Roles: p.Roles, Nationalities: p.Nationalities}
}

func (t DumpTeam) Record() Team {
	return Team{ID: t.PathName, Name: t.Name}
}
