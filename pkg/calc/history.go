package calc

import "github.com/mesh-intelligence/abacus/pkg/types"

// Ledger keeps two append-only record sequences, one per flavor. Entries are
// added only by successful calculations and are never removed. A Ledger is
// not safe for concurrent use on its own; the Calculator serializes access.
type Ledger struct {
	stack       []types.Record
	independent []types.Record
}

// Record appends rec at the tail of its flavor's sequence. The caller
// guarantees the record reflects a succeeded operation and carries a
// recognized flavor; nothing is validated here.
func (l *Ledger) Record(rec types.Record) {
	switch rec.Flavor {
	case types.FlavorStack:
		l.stack = append(l.stack, rec)
	case types.FlavorIndependent:
		l.independent = append(l.independent, rec)
	}
}

// Query returns one flavor's records oldest-first, or, for the zero flavor,
// the STACK sequence followed by the INDEPENDENT sequence, each oldest-first.
// The result is a copy, safe to hold across later appends.
func (l *Ledger) Query(flavor types.Flavor) []types.Record {
	switch flavor {
	case types.FlavorStack:
		return append([]types.Record(nil), l.stack...)
	case types.FlavorIndependent:
		return append([]types.Record(nil), l.independent...)
	}
	all := make([]types.Record, 0, len(l.stack)+len(l.independent))
	all = append(all, l.stack...)
	return append(all, l.independent...)
}

// Last returns the most recently appended record for the flavor. It fails
// with ErrEmptyHistory when that flavor has no recorded entries yet.
func (l *Ledger) Last(flavor types.Flavor) (types.Record, error) {
	var seq []types.Record
	switch flavor {
	case types.FlavorStack:
		seq = l.stack
	case types.FlavorIndependent:
		seq = l.independent
	}
	if len(seq) == 0 {
		return types.Record{}, failf(ErrEmptyHistory,
			"Error: no operations have been recorded for flavor %s", flavor)
	}
	return seq[len(seq)-1], nil
}
