package models

// GuessRequest is the body of POST /guess.
type GuessRequest struct {
	Guess   string `json:"guess" validate:"required,max=255"`
	Mode    string `json:"mode" validate:"required"`
	DateKey string `json:"date_key" validate:"required,datetime=2006-01-02"`
}

// ReportRequest is the body of POST /report.
type ReportRequest struct {
	Message string `json:"message" validate:"required"`
}

type ReportResponse struct {
	ID string `json:"id"`
}

// GameResponse describes the game currently being played.
type GameResponse struct {
	GameKey  string         `json:"game_key"`
	Hints    map[Mode]Hints `json:"hints"`
	Previous *PreviousGame  `json:"previous,omitempty"`
}

// PreviousGame reveals the answers of the day before the current game.
type PreviousGame struct {
	GameKey string               `json:"game_key"`
	Answers map[Mode]PlayerMatch `json:"answers"`
}

type SearchResponse struct {
	Results []PlayerMatch `json:"results"`
}

// ModeStats counts guesses made against one mode on one day.
type ModeStats struct {
	Guesses int64 `json:"guesses"`
	Solves  int64 `json:"solves"`
}

type DayStats struct {
	Date  string             `json:"date"`
	Modes map[Mode]ModeStats `json:"modes"`
}
