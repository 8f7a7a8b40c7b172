package tracing

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fatih/structs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tebeka/atexit"
)

// SQLite writes commands and events to a sqlite3 file using reflection to
// build the CREATE TABLE/INSERT statements from the entry struct shapes,
// the same way the teacher's sqlite writer does for its own entry types.
// It registers an atexit flush, which runs only if the process exits
// through atexit.Exit; Close flushes buffered entries as well.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB

	batchSize int
	commands  []CommandEntry
	events    []EventEntry
}

// OpenSQLite creates (or reuses) the sqlite3 database at path and prepares
// the commands/events tables.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database: %w", err)
	}

	t := &SQLite{db: db, batchSize: 1000}

	if err := t.createTable("commands", CommandEntry{}); err != nil {
		return nil, err
	}
	if err := t.createTable("events", EventEntry{}); err != nil {
		return nil, err
	}

	atexit.Register(func() { t.Flush() })

	return t, nil
}

func (t *SQLite) createTable(name string, sample any) error {
	fields := strings.Join(structs.Names(sample), ",\n\t")
	_, err := t.db.Exec(`CREATE TABLE IF NOT EXISTS ` + name + ` (` + "\n\t" + fields + "\n)")
	if err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}
	return nil
}

// RecordCommand buffers a command entry, flushing once the batch fills.
func (t *SQLite) RecordCommand(e CommandEntry) {
	t.mu.Lock()
	t.commands = append(t.commands, e)
	full := len(t.commands)+len(t.events) >= t.batchSize
	t.mu.Unlock()

	if full {
		t.Flush()
	}
}

// RecordEvent buffers an event entry, flushing once the batch fills.
func (t *SQLite) RecordEvent(e EventEntry) {
	t.mu.Lock()
	t.events = append(t.events, e)
	full := len(t.commands)+len(t.events) >= t.batchSize
	t.mu.Unlock()

	if full {
		t.Flush()
	}
}

// Flush writes every buffered entry inside a single transaction, the same
// batching shape the teacher's writer uses.
func (t *SQLite) Flush() {
	t.mu.Lock()
	commands, events := t.commands, t.events
	t.commands, t.events = nil, nil
	t.mu.Unlock()

	if len(commands) == 0 && len(events) == 0 {
		return
	}

	tx, err := t.db.Begin()
	if err != nil {
		panic(err)
	}

	if len(commands) > 0 {
		insertRows(tx, "commands", CommandEntry{}, len(commands), func(i int) any { return commands[i] })
	}
	if len(events) > 0 {
		insertRows(tx, "events", EventEntry{}, len(events), func(i int) any { return events[i] })
	}

	if err := tx.Commit(); err != nil {
		panic(err)
	}
}

func insertRows(tx *sql.Tx, table string, sample any, n int, at func(i int) any) {
	names := structs.Names(sample)
	qs := make([]string, len(names))
	for i := range qs {
		qs[i] = "?"
	}

	stmt, err := tx.Prepare("INSERT INTO " + table + " VALUES (" + strings.Join(qs, ", ") + ")")
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		v := reflect.ValueOf(at(i))
		args := make([]any, v.NumField())
		for f := 0; f < v.NumField(); f++ {
			args[f] = v.Field(f).Interface()
		}
		if _, err := stmt.Exec(args...); err != nil {
			panic(err)
		}
	}
}

// Close flushes and closes the underlying database handle.
func (t *SQLite) Close() error {
	t.Flush()
	return t.db.Close()
}
