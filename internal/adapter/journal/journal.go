// Package journal records every holding register write in a SQLite database
// so that the operator can review what was changed and when.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexus-edge/hvac-console/internal/domain"
	"github.com/nexus-edge/hvac-console/internal/metrics"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS writes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TEXT NOT NULL,
    register INTEGER NOT NULL,
    name TEXT NOT NULL,
    previous_value INTEGER NOT NULL,
    new_value INTEGER NOT NULL,
    source TEXT NOT NULL
);`

const timeLayout = "2006-01-02 15:04:05.000"

// Entry is one recorded holding register write.
type Entry struct {
	Time     time.Time
	Register uint16
	Name     string
	Previous uint16
	Value    uint16
	Source   string
}

// Config holds journal configuration.
type Config struct {
	Path      string
	QueueSize int
}

// Journal writes entries on a background goroutine.
type Journal struct {
	db      *sql.DB
	logger  zerolog.Logger
	metrics *metrics.Registry

	mu     sync.RWMutex // guards events against send after close
	events chan Entry
	closed bool

	started atomic.Bool
	wg      sync.WaitGroup
}

// Open creates or opens the journal database.
func Open(config Config, logger zerolog.Logger, metricsReg *metrics.Registry) (*Journal, error) {
	if config.Path == "" {
		return nil, domain.ErrJournalDisabled
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", config.Path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema in %s: %w", config.Path, err)
	}

	return &Journal{
		db:      db,
		logger:  logger.With().Str("component", "journal").Str("path", config.Path).Logger(),
		metrics: metricsReg,
		events:  make(chan Entry, config.QueueSize),
	}, nil
}

// Start launches the writer goroutine.
func (j *Journal) Start(ctx context.Context) error {
	if j.started.Swap(true) {
		return nil
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.logger.Debug().Msg("Journal writer started")

		for e := range j.events {
			if err := j.Write(context.Background(), e); err != nil {
				j.logger.Error().Err(err).Uint16("register", e.Register).Msg("Failed to write journal entry")
			}
		}
		j.logger.Debug().Msg("Journal writer stopped")
	}()
	return nil
}

// Record queues e without blocking. Entries are dropped when the queue is
// full or the journal is stopped.
func (j *Journal) Record(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}

	select {
	case j.events <- e:
	default:
		j.metrics.RecordJournal(true)
		j.logger.Warn().Uint16("register", e.Register).Msg("Journal queue full, entry dropped")
	}
}

// Write stores e synchronously.
func (j *Journal) Write(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO writes(timestamp, register, name, previous_value, new_value, source) VALUES(?, ?, ?, ?, ?, ?)",
		e.Time.UTC().Format(timeLayout), e.Register, e.Name, e.Previous, e.Value, e.Source)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	j.metrics.RecordJournal(false)
	return nil
}

// Recent returns up to n most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := j.db.QueryContext(ctx,
		"SELECT timestamp, register, name, previous_value, new_value, source FROM writes ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			ts string
			e  Entry
		)
		if err := rows.Scan(&ts, &e.Register, &e.Name, &e.Previous, &e.Value, &e.Source); err != nil {
			return nil, fmt.Errorf("scanning journal row: %w", err)
		}
		if t, err := time.ParseInLocation(timeLayout, ts, time.UTC); err == nil {
			e.Time = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// HealthCheck pings the database.
func (j *Journal) HealthCheck(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Stop drains queued entries and closes the database.
func (j *Journal) Stop(ctx context.Context) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	close(j.events)
	j.mu.Unlock()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		j.logger.Warn().Msg("Timeout waiting for journal writer to drain")
	}

	return j.db.Close()
}
