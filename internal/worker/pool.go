// Package worker implements the buffered worker pool for guess analytics.
// Guess requests never wait on analytics storage: events are queued, shed
// when the queue is full, and written in batches.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/esportle/esportle-api/internal/models"
)

// Prometheus metrics
var (
	eventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esportle_events_ingested_total",
		Help: "Total number of guess events queued",
	})

	eventsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esportle_events_processed_total",
		Help: "Total number of guess events processed by workers",
	})

	eventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esportle_events_failed_total",
		Help: "Total number of guess events that failed processing",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "esportle_worker_queue_depth",
		Help: "Current depth of the worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "esportle_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	eventsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "esportle_events_load_shed_total",
		Help: "Total number of guess events dropped due to load shedding",
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Event     *models.GuessEvent
	RawJSON   string
	Timestamp time.Time
}

// Pipeliner opens Redis pipelines. *redis.Client satisfies it.
type Pipeliner interface {
	Pipeline() redis.Pipeliner
}

// PoolConfig configures the worker pool. ClickHouse and Redis are both
// optional; a nil sink is skipped.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Redis         Pipeliner
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async event processing
type Pool struct {
	config      PoolConfig
	jobQueue    chan Job
	wg          sync.WaitGroup
	sideEffects sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
		"clickhouse", p.config.ClickHouse != nil,
	)
}

// Stop drains the queue, flushes every worker and waits for pending Redis
// updates.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	close(p.jobQueue)
	p.wg.Wait()
	p.cancel()
	p.sideEffects.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a job to the queue without blocking. It returns false when
// the queue is full or the pool has stopped.
func (p *Pool) Enqueue(event *models.GuessEvent) (queued bool) {
	rawJSON, _ := json.Marshal(event)

	job := Job{
		Event:     event,
		RawJSON:   string(rawJSON),
		Timestamp: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue event (pool stopped)", "error", r)
			eventsLoadShed.Inc()
			queued = false
		}
	}()

	select {
	case p.jobQueue <- job:
		eventsIngested.Inc()
		return true
	case <-p.ctx.Done():
		p.logger.Warn("Worker pool context canceled, dropping event")
		eventsLoadShed.Inc()
		return false
	default:
		eventsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			eventsFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch processed", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			eventsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch writes a batch to ClickHouse and schedules the counter
// updates.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	ctx := context.Background()

	// Must copy batch because the slice is reused in the worker loop
	batchCopy := make([]Job, len(batch))
	copy(batchCopy, batch)
	p.sideEffects.Add(1)
	go func() {
		defer p.sideEffects.Done()
		p.processBatchSideEffects(ctx, batchCopy)
	}()

	if p.config.ClickHouse == nil {
		return nil
	}

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO esportle.guess_events (
			id, timestamp, day_key, mode, guess_id, correct,
			region, team, role, nationality, debut, achievement, raw_json
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare guess_events batch: %w", err)
	}

	for _, job := range batch {
		ev := toClickHouseEvent(job)
		err := chBatch.Append(
			ev.ID,
			ev.Timestamp,
			ev.DayKey,
			ev.Mode,
			ev.GuessID,
			ev.Correct,
			ev.Region,
			ev.Team,
			ev.Role,
			ev.Nationality,
			ev.Debut,
			ev.Achievement,
			ev.RawJSON,
		)
		if err != nil {
			p.logger.Warnw("Failed to append event to batch", "error", err, "guess", job.Event.GuessID)
			continue
		}
	}

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "batchSize", len(batch))
		return err
	}
	return nil
}

// toClickHouseEvent flattens a job into a guess_events row.
func toClickHouseEvent(job Job) *models.ClickHouseGuessEvent {
	e := job.Event
	ts := e.ReceivedAt
	if ts.IsZero() {
		ts = job.Timestamp
	}
	var correct uint8
	if e.Correct {
		correct = 1
	}
	return &models.ClickHouseGuessEvent{
		ID:          e.ID,
		Timestamp:   ts,
		DayKey:      e.DayKey,
		Mode:        string(e.Mode),
		GuessID:     e.GuessID,
		Correct:     correct,
		Region:      e.Region.String(),
		Team:        e.Team.String(),
		Role:        e.Role.String(),
		Nationality: e.Nation.String(),
		Debut:       e.Debut.String(),
		Achievement: e.Achieve.String(),
		RawJSON:     job.RawJSON,
	}
}

// statsIncrements folds a batch into per-hash counter deltas.
func statsIncrements(batch []Job) map[string]map[string]int64 {
	out := make(map[string]map[string]int64)
	for _, job := range batch {
		key := models.StatsKey(job.Event.DayKey, job.Event.Mode)
		fields := out[key]
		if fields == nil {
			fields = make(map[string]int64, 2)
			out[key] = fields
		}
		fields[models.StatsFieldGuesses]++
		if job.Event.Correct {
			fields[models.StatsFieldSolves]++
		}
	}
	return out
}

// processBatchSideEffects updates the per-day counters in one pipeline.
func (p *Pool) processBatchSideEffects(ctx context.Context, batch []Job) {
	if len(batch) == 0 || p.config.Redis == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipe := p.config.Redis.Pipeline()
	for key, fields := range statsIncrements(batch) {
		for field, n := range fields {
			pipe.HIncrBy(ctx, key, field, n)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warnw("Failed to update guess counters", "error", err, "batchSize", len(batch))
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
