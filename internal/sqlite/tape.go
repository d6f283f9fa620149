// Package sqlite implements the relational tape backend for abacus.
// Implements: prd002-sqlite-tape (R1-R6); prd004-dual-persistence R2 (ID authority).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// FileName is the database file created under the data directory.
const FileName = "abacus.db"

var _ types.Tape = (*Tape)(nil)

// Tape stores calculation records in a single operations table. It is the
// system's identifier authority: Save assigns rawid as MAX(rawid)+1 inside
// the insert transaction, so identifiers are dense and start at 1.
type Tape struct {
	mu     sync.RWMutex
	closed bool
	db     *sql.DB
}

// Open creates dataDir if needed, opens the database file inside it, and
// applies the schema. The database persists across runs.
func Open(dataDir string) (*Tape, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &Tape{db: db}, nil
}

// Save assigns the next rawid and inserts the record, both inside one
// transaction. The write lock serializes assignment so concurrent saves
// cannot observe the same MAX.
func (t *Tape) Save(ctx context.Context, rec types.Record) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, types.ErrTapeClosed
	}

	args, err := json.Marshal(rec.Arguments)
	if err != nil {
		return 0, fmt.Errorf("encoding arguments: %w", err)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(rawid), 0) + 1 FROM operations",
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("assigning rawid: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO operations (rawid, flavor, operation, arguments, result) VALUES (?, ?, ?, ?, ?)",
		id, string(rec.Flavor), rec.Operation, string(args), rec.Result,
	); err != nil {
		return 0, fmt.Errorf("inserting operation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing operation: %w", err)
	}

	return id, nil
}

// History returns stored records ordered by rawid. An empty flavor returns
// everything; any other value filters on the flavor column, so a value that
// was never stored yields an empty result rather than an error.
func (t *Tape) History(ctx context.Context, flavor string) ([]types.TapeRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, types.ErrTapeClosed
	}

	query := "SELECT rawid, flavor, operation, arguments, result FROM operations"
	var args []any
	if flavor != "" {
		query += " WHERE flavor = ?"
		args = append(args, flavor)
	}
	query += " ORDER BY rawid ASC"

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer rows.Close()

	results := []types.TapeRecord{}
	for rows.Next() {
		rec, err := hydrateOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating operation: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}

	return results, nil
}

// Ping verifies the database connection is usable.
func (t *Tape) Ping(ctx context.Context) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return types.ErrTapeClosed
	}
	return t.db.PingContext(ctx)
}

// Close closes the database. Idempotent; operations after Close fail with
// ErrTapeClosed.
func (t *Tape) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// hydrateOperation converts a row into a TapeRecord.
func hydrateOperation(rows *sql.Rows) (types.TapeRecord, error) {
	var (
		rec     types.TapeRecord
		flavor  string
		argJSON string
	)
	if err := rows.Scan(&rec.ID, &flavor, &rec.Operation, &argJSON, &rec.Result); err != nil {
		return types.TapeRecord{}, err
	}
	rec.Flavor = types.Flavor(flavor)
	if err := json.Unmarshal([]byte(argJSON), &rec.Arguments); err != nil {
		return types.TapeRecord{}, fmt.Errorf("decoding arguments: %w", err)
	}
	return rec, nil
}
