package worker

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

var clickHouseSchema = []string{
	`CREATE DATABASE IF NOT EXISTS esportle`,
	`CREATE TABLE IF NOT EXISTS esportle.guess_events (
		id          UUID,
		timestamp   DateTime64(3),
		day_key     String,
		mode        LowCardinality(String),
		guess_id    String,
		correct     UInt8,
		region      LowCardinality(String),
		team        LowCardinality(String),
		role        LowCardinality(String),
		nationality LowCardinality(String),
		debut       LowCardinality(String),
		achievement LowCardinality(String),
		raw_json    String
	) ENGINE = MergeTree
	PARTITION BY toYYYYMM(timestamp)
	ORDER BY (day_key, mode, timestamp)`,
}

// EnsureSchema creates the analytics table when it is missing.
func EnsureSchema(ctx context.Context, conn driver.Conn) error {
	for _, stmt := range clickHouseSchema {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return nil
}
