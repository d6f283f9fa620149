// Package docstore implements the document tape backend for abacus on top of
// a pebble key-value store. Every calculation is stored as one JSON document
// keyed by its identifier. The store never assigns identifiers; the
// relational tape does, and the dual tape passes them through.
// Implements: prd003-document-tape (R1-R5); prd004-dual-persistence R3 (mirror).
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// DirName is the pebble directory created under the data directory.
const DirName = "docs"

// keyPrefix namespaces operation documents. Identifiers are appended as
// zero-padded decimal so lexicographic key order matches numeric order.
var keyPrefix = []byte("op:")

// Tape mirrors identified calculation records into a pebble store.
type Tape struct {
	mu     sync.RWMutex
	closed bool
	db     *pebble.DB
}

// Open opens (creating if needed) the pebble store under dataDir.
func Open(dataDir string) (*Tape, error) {
	db, err := pebble.Open(filepath.Join(dataDir, DirName), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	return &Tape{db: db}, nil
}

// SaveWithID stores the record as a JSON document under the supplied
// identifier. Writing an identifier twice overwrites the document; the
// relational tape never hands out duplicates.
func (t *Tape) SaveWithID(ctx context.Context, id int64, rec types.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return types.ErrTapeClosed
	}

	doc, err := json.Marshal(types.TapeRecord{ID: id, Record: rec})
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := t.db.Set(makeKey(id), doc, pebble.Sync); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

// History returns stored documents in identifier order. An empty flavor
// returns everything; any other value filters on the stored flavor, so an
// unknown value yields an empty result.
func (t *Tape) History(ctx context.Context, flavor string) ([]types.TapeRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return nil, types.ErrTapeClosed
	}

	iter, err := t.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: prefixUpperBound(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %w", err)
	}
	defer iter.Close()

	results := []types.TapeRecord{}
	for iter.First(); iter.Valid(); iter.Next() {
		var rec types.TapeRecord
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decoding document %q: %w", iter.Key(), err)
		}
		if flavor != "" && string(rec.Flavor) != flavor {
			continue
		}
		results = append(results, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return results, nil
}

// Ping probes the store with a read. A missing key is a healthy store.
func (t *Tape) Ping(ctx context.Context) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return types.ErrTapeClosed
	}

	_, closer, err := t.db.Get([]byte("ping:probe"))
	if err != nil && !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("probing document store: %w", err)
	}
	if closer != nil {
		_ = closer.Close()
	}
	return nil
}

// Close closes the pebble store. Idempotent; operations after Close fail
// with ErrTapeClosed.
func (t *Tape) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if err := t.db.Close(); err != nil {
		return fmt.Errorf("closing document store: %w", err)
	}
	return nil
}

// makeKey builds the document key for an identifier.
func makeKey(id int64) []byte {
	return append(append([]byte{}, keyPrefix...), fmt.Sprintf("%020d", id)...)
}

// prefixUpperBound returns the smallest key greater than every prefixed key.
func prefixUpperBound() []byte {
	upper := append([]byte{}, keyPrefix...)
	upper[len(upper)-1]++
	return upper
}
