package models

import "time"

// Player is a row of the players table. ID is the stable path identifier
// assigned by the scraper (e.g. "faker").
type Player struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Roles         []string `json:"roles"`
	Nationalities []string `json:"nationalities"`
}

type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tournament is a single tournament instance. ID doubles as the series
// identifier consumed by the series classifier ("lck/2024/summer").
type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Series    string    `json:"series,omitempty"`
	Region    Region    `json:"region,omitempty"`
	Tier      int       `json:"tier"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// TournamentResult is one player's placement in one tournament for one team.
type TournamentResult struct {
	TournamentID string   `json:"tournament_id"`
	PlayerID     string   `json:"player_id"`
	TeamID       string   `json:"team_id"`
	Position     *string  `json:"position,omitempty"`
	BeatPercent  *int     `json:"beat_percent,omitempty"`
	TierWeight   *float64 `json:"tier_weight,omitempty"`
}

// PlayerMatch is a search hit returned to the guess input box.
type PlayerMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
