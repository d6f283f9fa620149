package types

import (
	"context"
	"errors"
)

// Method selects which backing store answers a tape history query.
type Method string

// Supported persistence methods.
const (
	MethodSQLite Method = "SQLITE"
	MethodPebble Method = "PEBBLE"
)

// Tape is the durable archive fed by the calculation service. Every successful
// calculation yields one Record; a Tape stores it under an externally visible
// identifier. The calculation engine never sees the identifier and is agnostic
// to how or whether persistence succeeds.
type Tape interface {
	// Save stores the record and returns the identifier assigned to it.
	Save(ctx context.Context, rec Record) (int64, error)

	// History returns stored records oldest-first. A non-empty flavor
	// restricts the result to records whose flavor matches it exactly;
	// a flavor no record carries yields an empty slice.
	History(ctx context.Context, flavor string) ([]TapeRecord, error)

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources. Idempotent: multiple calls succeed.
	// After Close, Save and History return ErrTapeClosed.
	Close() error
}

// TapeRecord is a Record as stored on a tape, carrying its assigned
// identifier.
type TapeRecord struct {
	ID int64 `json:"id"`
	Record
}

// Tape lifecycle errors.
var (
	ErrTapeClosed    = errors.New("tape is closed")
	ErrUnknownMethod = errors.New("unknown persistence method")
)
