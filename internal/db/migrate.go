package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const createActivityTable = `
CREATE TABLE IF NOT EXISTS event_activity
(
	id              String,
	event_id        String,
	type            LowCardinality(String),
	user_id         String,
	ticket_type     String,
	payment_status  LowCardinality(String),
	amount          Float64,
	metadata        String DEFAULT '{}',
	created_at      DateTime64(3, 'UTC'),
	ingested_at     DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(created_at)
ORDER BY (event_id, created_at, id)
SETTINGS index_granularity = 8192;
`

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn) error {
	if err := conn.Exec(ctx, createActivityTable); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
