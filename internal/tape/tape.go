// Package tape composes the relational and document stores into the dual
// persistence layer. The relational store is the identifier authority; every
// identified record is mirrored into the document store so history can be
// served from either.
// Implements: prd004-dual-persistence (R1-R5); rel01.1-uc002-dual-store-history.
package tape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Mirror receives an identified copy of every record saved to the relational
// store. The document tape implements it.
type Mirror interface {
	SaveWithID(ctx context.Context, id int64, rec types.Record) error
	History(ctx context.Context, flavor string) ([]types.TapeRecord, error)
	Ping(ctx context.Context) error
	Close() error
}

// Dual is the write-through pair of tapes. Save order is fixed: relational
// first for the identifier, then the mirror.
type Dual struct {
	rel types.Tape
	doc Mirror
	log *slog.Logger
}

// New builds a Dual over the two stores. logger receives mirror failures;
// nil means they are dropped.
func New(rel types.Tape, doc Mirror, logger *slog.Logger) *Dual {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dual{rel: rel, doc: doc, log: logger}
}

// Save writes the record to the relational store, which assigns its
// identifier, then mirrors the identified record into the document store.
// A mirror failure is logged and swallowed: the relational write stands and
// the caller still gets the identifier.
func (d *Dual) Save(ctx context.Context, rec types.Record) (int64, error) {
	id, err := d.rel.Save(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("saving operation: %w", err)
	}

	if err := d.doc.SaveWithID(ctx, id, rec); err != nil {
		d.log.Error("mirroring operation to document store failed",
			"id", id, "operation", rec.Operation, "error", err)
	}

	return id, nil
}

// History serves stored records from the store the method names.
func (d *Dual) History(ctx context.Context, method types.Method, flavor string) ([]types.TapeRecord, error) {
	switch method {
	case types.MethodSQLite:
		return d.rel.History(ctx, flavor)
	case types.MethodPebble:
		return d.doc.History(ctx, flavor)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownMethod, method)
	}
}

// Ping checks both stores concurrently and fails on the first error.
func (d *Dual) Ping(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := d.rel.Ping(egCtx); err != nil {
			return fmt.Errorf("relational store: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		if err := d.doc.Ping(egCtx); err != nil {
			return fmt.Errorf("document store: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

// Close closes both stores and reports every failure.
func (d *Dual) Close() error {
	return errors.Join(d.rel.Close(), d.doc.Close())
}
