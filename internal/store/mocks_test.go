package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// fakeRedis implements AnswerRedis over maps.
type fakeRedis struct {
	mu      sync.Mutex
	strings map[string]string
	zsets   map[string]map[string]float64
	err     error
	// zaddErrs are returned by successive ZAddNX calls before err applies.
	zaddErrs []error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		strings: map[string]string{},
		zsets:   map[string]map[string]float64{},
	}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.strings[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) MGet(ctx context.Context, keys ...string) *redis.SliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewSliceResult(nil, f.err)
	}
	out := make([]interface{}, len(keys))
	for i, k := range keys {
		if v, ok := f.strings[k]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.strings[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	switch v := value.(type) {
	case []byte:
		f.strings[key] = string(v)
	default:
		f.strings[key] = fmt.Sprint(v)
	}
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) ZAddNX(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.zaddErrs) > 0 {
		err := f.zaddErrs[0]
		f.zaddErrs = f.zaddErrs[1:]
		return redis.NewIntResult(0, err)
	}
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	set := f.zsets[key]
	if set == nil {
		set = map[string]float64{}
		f.zsets[key] = set
	}
	var added int64
	for _, m := range members {
		member := fmt.Sprint(m.Member)
		if _, ok := set[member]; !ok {
			set[member] = m.Score
			added++
		}
	}
	return redis.NewIntResult(added, nil)
}

func (f *fakeRedis) ZRevRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringSliceResult(nil, f.err)
	}
	set := f.zsets[key]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool { return set[members[i]] > set[members[j]] })
	if start >= int64(len(members)) {
		return redis.NewStringSliceResult([]string{}, nil)
	}
	if stop < 0 || stop >= int64(len(members)) {
		stop = int64(len(members)) - 1
	}
	return redis.NewStringSliceResult(members[start:stop+1], nil)
}

// MockPgPool records statements and serves canned rows.
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	LastSQL  string
	LastArgs []any
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.LastSQL, m.LastArgs = sql, args
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPGXRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.LastSQL, m.LastArgs = sql, args
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPGXRow{Err: pgx.ErrNoRows}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.LastSQL, m.LastArgs = sql, args
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// assign copies values into scan destinations of the same type.
func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(values[i]))
	}
	return nil
}

type MockPGXRow struct {
	Values []any
	Err    error
}

func (m *MockPGXRow) Scan(dest ...any) error {
	if m.Err != nil {
		return m.Err
	}
	return assign(m.Values, dest)
}

type MockPGXRows struct {
	Data [][]any
	pos  int
}

func (m *MockPGXRows) Close()                                       {}
func (m *MockPGXRows) Err() error                                   { return nil }
func (m *MockPGXRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *MockPGXRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *MockPGXRows) Next() bool {
	if m.pos >= len(m.Data) {
		return false
	}
	m.pos++
	return true
}
func (m *MockPGXRows) Scan(dest ...any) error { return assign(m.Data[m.pos-1], dest) }
func (m *MockPGXRows) Values() ([]any, error) { return m.Data[m.pos-1], nil }
func (m *MockPGXRows) RawValues() [][]byte    { return nil }
func (m *MockPGXRows) Conn() *pgx.Conn        { return nil }

// MockTx captures batched statements. Unused pgx.Tx methods panic.
type MockTx struct {
	pgx.Tx
	Queued     []string
	ExecErr    error
	Committed  bool
	RolledBack bool
}

func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	for _, q := range b.QueuedQueries {
		m.Queued = append(m.Queued, q.SQL)
	}
	return &mockBatchResults{err: m.ExecErr}
}

func (m *MockTx) Commit(ctx context.Context) error {
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

type mockBatchResults struct {
	err error
}

func (m *mockBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, m.err }
func (m *mockBatchResults) Query() (pgx.Rows, error)         { return &MockPGXRows{}, m.err }
func (m *mockBatchResults) QueryRow() pgx.Row                { return &MockPGXRow{Err: m.err} }
func (m *mockBatchResults) Close() error                     { return nil }

type MockTxBeginner struct {
	Tx *MockTx
}

func (m *MockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.Tx, nil
}
