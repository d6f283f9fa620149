// Package types defines the calculation record model, the Tape persistence
// interface, and the service configuration shared across the abacus packages.
// Implements: prd001-calculation-engine (Record, Flavor); prd004-dual-persistence (Tape, Method).
package types
