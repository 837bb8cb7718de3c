package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ChartsFile is the database file name created inside an output directory.
const ChartsFile = "charts.db"

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

var migrations = []struct {
	version string
	sql     string
}{
	{
		version: "001_charts",
		sql: `CREATE TABLE IF NOT EXISTS charts (
            id TEXT PRIMARY KEY,
            kind TEXT NOT NULL,
            encoding TEXT NOT NULL,
            data TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,
	},
	{
		version: "002_charts_kind_idx",
		sql:     `CREATE INDEX IF NOT EXISTS idx_charts_kind ON charts(kind, created_at)`,
	},
}

// Record is a stored plot artifact.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Encoding  Encoding        `json:"encoding"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists plot artifacts in a SQLite charts database.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenDir opens (or creates) the charts database inside dir.
func OpenDir(dir string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("charts directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure charts directory: %w", err)
	}
	return Open(filepath.Join(dir, ChartsFile), logger)
}

// Open initializes or connects to the charts database at path and applies
// migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, logger: logger}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Log stores data under kind. The payload is JSON encoded; encoding failures
// are returned to the caller.
func (s *Store) Log(encoding Encoding, kind string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s plot: %w", kind, err)
	}
	id := uuid.NewString()
	ts := time.Now().UTC().Format(time.RFC3339Nano)

	ctx := context.Background()
	if err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO charts (id, kind, encoding, data, created_at) VALUES (?, ?, ?, ?, ?)`,
			id, kind, string(encoding), string(payload), ts,
		)
		return execErr
	}); err != nil {
		return fmt.Errorf("insert %s plot: %w", kind, err)
	}

	s.logger.Debug("chart stored",
		slog.String("id", id),
		slog.String("kind", kind),
		slog.String("encoding", string(encoding)),
		slog.Int("bytes", len(payload)),
	)
	return nil
}

// List returns stored plots in insertion order, oldest first. An empty
// kind returns every plot.
func (s *Store) List(ctx context.Context, kind string) ([]Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	query := `SELECT id, kind, encoding, data, created_at FROM charts`
	var args []any
	if kind = strings.TrimSpace(kind); kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query charts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec      Record
			encoding string
			data     string
			created  string
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &encoding, &data, &created); err != nil {
			return nil, fmt.Errorf("scan chart: %w", err)
		}
		rec.Encoding = Encoding(encoding)
		rec.Data = json.RawMessage(data)
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			rec.CreatedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate charts: %w", err)
	}
	return records, nil
}

// Latest returns the most recent plot stored under kind.
func (s *Store) Latest(ctx context.Context, kind string) (Record, bool, error) {
	records, err := s.List(ctx, kind)
	if err != nil {
		return Record{}, false, err
	}
	if len(records) == 0 {
		return Record{}, false, nil
	}
	return records[len(records)-1], true, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, migration := range migrations {
		var count int
		row := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", migration.version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, migration.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", migration.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", migration.version); err != nil {
			return fmt.Errorf("record migration %s: %w", migration.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// Several ranks may share one output directory, so inserts retry on
// SQLITE_BUSY with exponential backoff.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
