package tracing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// ClickHouseConfig addresses a ClickHouse server for trace recording.
type ClickHouseConfig struct {
	Host      string
	Port      int
	Database  string
	Username  string
	Password  string
	BatchSize int
}

// ClickHouse writes commands and events through the native ClickHouse
// protocol using type-specific batches rather than reflection, the way the
// teacher's fast recorder avoids paying reflection cost per row.
type ClickHouse struct {
	conn clickhouse.Conn
	mu   sync.Mutex

	batchSize int
	commands  []CommandEntry
	events    []EventEntry
}

// OpenClickHouse connects to a ClickHouse server and creates the
// commands/events tables if absent.
func OpenClickHouse(cfg ClickHouseConfig) (*ClickHouse, error) {
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout:      30 * time.Second,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("pinging clickhouse: %w", err)
	}

	t := &ClickHouse{conn: conn, batchSize: batchSize}

	if err := t.createTables(context.Background()); err != nil {
		return nil, err
	}

	atexit.Register(func() { t.Flush() })

	return t, nil
}

func (t *ClickHouse) createTables(ctx context.Context) error {
	if err := t.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS commands (
			AtNanos Int64,
			CommandID Int32,
			ClientID Int64,
			CorrelationID Int64,
			RegistrationID Int64,
			StreamID Int32,
			ChannelURI String,
			Exclusive Bool
		) ENGINE = MergeTree()
		ORDER BY (AtNanos, ClientID)
	`); err != nil {
		return fmt.Errorf("creating commands table: %w", err)
	}

	if err := t.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			AtNanos Int64,
			EventID Int32,
			ClientID Int64,
			CorrelationID Int64,
			RegistrationID Int64,
			StreamID Int32,
			SessionID Int32,
			LogFileName String,
			ImageCorrelationID Int64,
			SourceIdentity String,
			ChannelURI String,
			ErrorCode Int32,
			Message String
		) ENGINE = MergeTree()
		ORDER BY (AtNanos, ClientID)
	`); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	return nil
}

// RecordCommand buffers a command entry, flushing once the batch fills.
func (t *ClickHouse) RecordCommand(e CommandEntry) {
	t.mu.Lock()
	t.commands = append(t.commands, e)
	full := len(t.commands) >= t.batchSize
	t.mu.Unlock()

	if full {
		t.Flush()
	}
}

// RecordEvent buffers an event entry, flushing once the batch fills.
func (t *ClickHouse) RecordEvent(e EventEntry) {
	t.mu.Lock()
	t.events = append(t.events, e)
	full := len(t.events) >= t.batchSize
	t.mu.Unlock()

	if full {
		t.Flush()
	}
}

// Flush sends each table's buffered batch over the native protocol.
func (t *ClickHouse) Flush() {
	t.mu.Lock()
	commands, events := t.commands, t.events
	t.commands, t.events = nil, nil
	t.mu.Unlock()

	ctx := context.Background()

	if len(commands) > 0 {
		t.flushCommands(ctx, commands)
	}
	if len(events) > 0 {
		t.flushEvents(ctx, events)
	}
}

func (t *ClickHouse) flushCommands(ctx context.Context, entries []CommandEntry) {
	batch, err := t.conn.PrepareBatch(ctx, "INSERT INTO commands")
	if err != nil {
		panic(err)
	}

	for _, e := range entries {
		err = batch.Append(
			e.AtNanos, e.CommandID, e.ClientID, e.CorrelationID,
			e.RegistrationID, e.StreamID, e.ChannelURI, e.Exclusive,
		)
		if err != nil {
			panic(err)
		}
	}

	if err := batch.Send(); err != nil {
		panic(err)
	}
}

func (t *ClickHouse) flushEvents(ctx context.Context, entries []EventEntry) {
	batch, err := t.conn.PrepareBatch(ctx, "INSERT INTO events")
	if err != nil {
		panic(err)
	}

	for _, e := range entries {
		err = batch.Append(
			e.AtNanos, e.EventID, e.ClientID, e.CorrelationID,
			e.RegistrationID, e.StreamID, e.SessionID, e.LogFileName,
			e.ImageCorrelationID, e.SourceIdentity, e.ChannelURI,
			e.ErrorCode, e.Message,
		)
		if err != nil {
			panic(err)
		}
	}

	if err := batch.Send(); err != nil {
		panic(err)
	}
}

// Close flushes and closes the underlying connection.
func (t *ClickHouse) Close() error {
	t.Flush()
	return t.conn.Close()
}
