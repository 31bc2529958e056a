package logic

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esportle/esportle-api/internal/models"
)

// memRecords is an in-memory RecordStore.
type memRecords struct {
	players     map[string]models.Player
	teams       map[string]models.Team
	tournaments map[string]models.Tournament
	results     []models.TournamentResult

	// ErrFunc, when set, is consulted before every call.
	ErrFunc func(method string) error
}

func newMemRecords() *memRecords {
	return &memRecords{
		players:     map[string]models.Player{},
		teams:       map[string]models.Team{},
		tournaments: map[string]models.Tournament{},
	}
}

func (m *memRecords) addPlayer(id, name string, roles, nationalities []string) {
	m.players[id] = models.Player{ID: id, Name: name, Roles: roles, Nationalities: nationalities}
}

func (m *memRecords) addTeam(id, name string) {
	m.teams[id] = models.Team{ID: id, Name: name}
}

func (m *memRecords) addTournament(id, name string, tier int, start, end string) {
	s, _ := time.Parse(models.DayKeyLayout, start)
	e, _ := time.Parse(models.DayKeyLayout, end)
	m.tournaments[id] = models.Tournament{ID: id, Name: name, Tier: tier, StartDate: s, EndDate: e}
}

func (m *memRecords) addResult(tournamentID, playerID, teamID, position string, beat int) {
	p := position
	b := beat
	m.results = append(m.results, models.TournamentResult{
		TournamentID: tournamentID,
		PlayerID:     playerID,
		TeamID:       teamID,
		Position:     &p,
		BeatPercent:  &b,
	})
}

func (m *memRecords) err(method string) error {
	if m.ErrFunc != nil {
		return m.ErrFunc(method)
	}
	return nil
}

func (m *memRecords) PlayerByID(ctx context.Context, id string) (*models.Player, error) {
	if err := m.err("PlayerByID"); err != nil {
		return nil, err
	}
	p, ok := m.players[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memRecords) PlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	if err := m.err("PlayersByIDs"); err != nil {
		return nil, err
	}
	var out []models.Player
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRecords) TeamsByIDs(ctx context.Context, ids []string) ([]models.Team, error) {
	if err := m.err("TeamsByIDs"); err != nil {
		return nil, err
	}
	var out []models.Team
	for _, id := range ids {
		if t, ok := m.teams[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRecords) TournamentsByIDs(ctx context.Context, ids []string) ([]models.Tournament, error) {
	if err := m.err("TournamentsByIDs"); err != nil {
		return nil, err
	}
	var out []models.Tournament
	for _, id := range ids {
		if t, ok := m.tournaments[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRecords) ResultsForPlayer(ctx context.Context, playerID string) ([]models.TournamentResult, error) {
	if err := m.err("ResultsForPlayer"); err != nil {
		return nil, err
	}
	var out []models.TournamentResult
	for _, r := range m.results {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) ResultsForTournaments(ctx context.Context, tournamentIDs []string) ([]models.TournamentResult, error) {
	if err := m.err("ResultsForTournaments"); err != nil {
		return nil, err
	}
	want := map[string]bool{}
	for _, id := range tournamentIDs {
		want[id] = true
	}
	var out []models.TournamentResult
	for _, r := range m.results {
		if want[r.TournamentID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) TournamentsEndedAfter(ctx context.Context, tier int, since time.Time) ([]models.Tournament, error) {
	if err := m.err("TournamentsEndedAfter"); err != nil {
		return nil, err
	}
	var out []models.Tournament
	for _, t := range m.tournaments {
		if t.Tier != tier {
			continue
		}
		if !since.IsZero() && !t.EndDate.After(since) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRecords) TeammatesInTournamentTeam(ctx context.Context, tournamentID, teamID string) ([]string, error) {
	if err := m.err("TeammatesInTournamentTeam"); err != nil {
		return nil, err
	}
	var out []string
	for _, r := range m.results {
		if r.TournamentID == tournamentID && r.TeamID == teamID {
			out = append(out, r.PlayerID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRecords) SearchPlayers(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error) {
	if err := m.err("SearchPlayers"); err != nil {
		return nil, err
	}
	var out []models.PlayerMatch
	for _, p := range m.players {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(term)) {
			out = append(out, models.PlayerMatch{ID: p.ID, Name: p.Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRecords) PlayersLastPlayedForTeam(ctx context.Context, term string, limit int) ([]models.PlayerMatch, error) {
	if err := m.err("PlayersLastPlayedForTeam"); err != nil {
		return nil, err
	}
	latest := map[string]models.TournamentResult{}
	for _, r := range m.results {
		cur, ok := latest[r.PlayerID]
		if !ok || m.tournaments[r.TournamentID].StartDate.After(m.tournaments[cur.TournamentID].StartDate) {
			latest[r.PlayerID] = r
		}
	}
	var out []models.PlayerMatch
	for playerID, r := range latest {
		if strings.EqualFold(m.teams[r.TeamID].Name, term) {
			out = append(out, models.PlayerMatch{ID: playerID, Name: m.players[playerID].Name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memAnswers is an in-memory AnswerStore with write-once semantics.
type memAnswers struct {
	mu      sync.Mutex
	records map[string]models.DailyAnswerRecord
	inserts int
	// unindexed dates are stored but hidden from GetMostRecent until rewritten.
	unindexed map[string]bool
}

func newMemAnswers(records ...models.DailyAnswerRecord) *memAnswers {
	m := &memAnswers{records: map[string]models.DailyAnswerRecord{}}
	for _, r := range records {
		m.records[r.Date] = r
	}
	return m
}

func (m *memAnswers) GetMostRecent(ctx context.Context, n int) ([]models.DailyAnswerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dates := make([]string, 0, len(m.records))
	for d := range m.records {
		if m.unindexed[d] {
			continue
		}
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > n {
		dates = dates[:n]
	}
	out := make([]models.DailyAnswerRecord, 0, len(dates))
	for _, d := range dates {
		out = append(out, m.records[d])
	}
	return out, nil
}

func (m *memAnswers) GetByDate(ctx context.Context, date string) (*models.DailyAnswerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[date]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memAnswers) InsertIfAbsent(ctx context.Context, record models.DailyAnswerRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.Date]; ok {
		delete(m.unindexed, record.Date)
		return false, nil
	}
	m.records[record.Date] = record
	m.inserts++
	return true, nil
}

// MockGuessQueue records enqueued events.
type MockGuessQueue struct {
	mu     sync.Mutex
	Events []*models.GuessEvent
	Full   bool
}

func (m *MockGuessQueue) Enqueue(event *models.GuessEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Full {
		return false
	}
	m.Events = append(m.Events, event)
	return true
}

func (m *MockGuessQueue) QueueDepth() int { return 0 }

// MockRedisClient serves hashes from memory.
type MockRedisClient struct {
	Hashes map[string]map[string]string
	Err    error
}

func (m *MockRedisClient) HGet(ctx context.Context, key string, field string) *redis.StringCmd {
	if m.Err != nil {
		return redis.NewStringResult("", m.Err)
	}
	v, ok := m.Hashes[key][field]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *MockRedisClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if m.Err != nil {
		return redis.NewMapStringStringResult(nil, m.Err)
	}
	h := m.Hashes[key]
	if h == nil {
		h = map[string]string{}
	}
	return redis.NewMapStringStringResult(h, nil)
}

// MockReportStore records inserted reports.
type MockReportStore struct {
	InsertFunc func(ctx context.Context, id, message string, at time.Time) error
	Inserted   []string
}

func (m *MockReportStore) InsertReport(ctx context.Context, id, message string, at time.Time) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, id, message, at); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, message)
	return nil
}

// fixedIntN always draws index i, clamped to the range.
func fixedIntN(i int) func(int) int {
	return func(n int) int {
		if i >= n {
			return n - 1
		}
		return i
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func floatPtr(f float64) *float64 {
	return &f
}

func day(s string) time.Time {
	t, err := time.Parse(models.DayKeyLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
