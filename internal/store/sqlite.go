package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/initiation/internal/progress"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	progressTable = "progress"
	recordID      = 1
)

// SQLiteStore keeps the progress record as a single row in a SQLite
// database. The row is written with one upsert statement.
type SQLiteStore struct {
	db  *sql.DB
	drv *entsql.Driver
	dsn string
}

var _ ProgressStore = (*SQLiteStore)(nil)

// OpenSQLite connects to the SQLite database at dsn, applies pragmas and
// creates the progress table.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	s := &SQLiteStore{db: db, drv: drv, dsn: dsn}
	if err := s.migrate(context.Background()); err != nil {
		drv.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.drv.Close()
}

// migrate creates the single-row progress table. The CHECK constraint keeps
// the table to one record.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	return s.drv.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+progressTable+` (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		record TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`, []any{}, nil)
}

func (s *SQLiteStore) Load(ctx context.Context) (*progress.State, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("record").
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("id", recordID)).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	var (
		record string
		found  bool
	)
	if rows.Next() {
		if err := rows.Scan(&record); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("read progress: %w", err)
	}
	rows.Close()

	if !found {
		st := progress.New()
		if err := s.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("initialize progress: %w", err)
		}
		return st, nil
	}
	return decode(s.dsn+"#"+progressTable, []byte(record))
}

func (s *SQLiteStore) Save(ctx context.Context, st *progress.State) error {
	data, err := encode(st)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(progressTable).
		Columns("id", "record", "updated_at").
		Values(recordID, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-user durability.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
