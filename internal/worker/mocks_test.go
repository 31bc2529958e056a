package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"

	"github.com/esportle/esportle-api/internal/models"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn

	mu         sync.Mutex
	Batches    []*MockBatch
	Statements []string
	PrepareErr error
	SendErr    error
	SendDelay  time.Duration
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	if m.PrepareErr != nil {
		return nil, m.PrepareErr
	}
	b := &MockBatch{Query: query, sendErr: m.SendErr, sendDelay: m.SendDelay}
	m.mu.Lock()
	m.Batches = append(m.Batches, b)
	m.mu.Unlock()
	return b, nil
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statements = append(m.Statements, query)
	return nil
}

// AppendedRows counts rows across every sent batch.
func (m *MockClickHouseConn) AppendedRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		if b.IsSent() {
			n += b.Rows()
		}
	}
	return n
}

type MockBatch struct {
	driver.Batch

	mu        sync.Mutex
	Query     string
	Appended  [][]interface{}
	sent      bool
	sendErr   error
	sendDelay time.Duration
}

func (m *MockBatch) IsSent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func (m *MockBatch) Rows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Appended)
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	if m.sendDelay > 0 {
		time.Sleep(m.sendDelay)
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	m.sent = true
	m.mu.Unlock()
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}

func guessEvent(day string, mode models.Mode, guessID string, correct bool) *models.GuessEvent {
	return &models.GuessEvent{
		ID:         uuid.New(),
		DayKey:     day,
		Mode:       mode,
		GuessID:    guessID,
		Correct:    correct,
		Region:     models.HintCorrect,
		Team:       models.HintPartial,
		Role:       models.HintIncorrect,
		Nation:     models.HintCorrect,
		Debut:      models.HintCorrectIsHigher,
		Achieve:    models.HintCorrectIsLower,
		ReceivedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
