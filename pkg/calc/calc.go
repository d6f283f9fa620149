// Package calc implements the two-mode calculation engine: operation
// dispatch, the shared operand stack, and per-flavor history recording.
// Implements: prd001-calculation-engine (R1-R7);
//
//	rel01.0-uc001-independent-calculation; rel01.0-uc002-stack-workflow.
//
// Calculations run in one of two flavors. Independent flavor takes its
// operands from the request itself and requires an exact arity match. Stack
// flavor resolves operands implicitly from the top of the shared stack,
// most recently pushed first, and consumes them on commit.
package calc

import (
	"strings"
	"sync"

	"github.com/mesh-intelligence/abacus/pkg/types"
)

// Calculator is the calculation engine. It owns the operand stack and the
// history ledger and serializes every mutating call, so a single Calculator
// is safe for concurrent use by many callers. Read-only queries (Size,
// StackView, History, LastCalc) run concurrently with each other and never
// observe a partially committed mutation.
//
// The zero value is ready to use.
type Calculator struct {
	mu      sync.RWMutex
	stack   Stack
	history Ledger
}

// NewCalculator returns an engine with an empty stack and empty history.
// Both persist for the Calculator's lifetime; ledger entries are never
// removed and stack entries only by Delete or stack-flavor evaluation.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Evaluate runs one calculation and returns the history record it produced.
//
// The operation name is dispatched case-insensitively; the original casing is
// preserved in error messages and in the record. The flavor must be
// types.FlavorStack or types.FlavorIndependent. Independent flavor requires
// exactly as many explicit arguments as the operation's arity and never
// mutates the stack. Stack flavor ignores args, resolves operands from the
// stack top (most recently pushed operand first), and pops them once arity
// validation has passed; a later domain failure (division by zero, negative
// factorial) does not restore them.
//
// Every failure is an *Error classifiable with errors.Is; none is fatal to
// the engine's state.
func (c *Calculator) Evaluate(flavor types.Flavor, operation string, args []int64) (types.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op, ok := Lookup(operation)
	if !ok {
		return types.Record{}, failf(ErrUnknownOperation, "Error: unknown operation: %s", operation)
	}

	var operands []int64
	if flavor == types.FlavorStack {
		operands = c.stack.PeekTop(op.Arity)
		if len(operands) < op.Arity {
			return types.Record{}, failf(ErrInsufficientStack,
				"Error: cannot implement operation %s. It requires %d arguments and the stack has only %d arguments",
				operation, op.Arity, c.stack.Size())
		}
	} else {
		if len(args) < op.Arity {
			return types.Record{}, failf(ErrTooFewArguments,
				"Error: Not enough arguments to perform the operation %s", operation)
		}
		if len(args) > op.Arity {
			return types.Record{}, failf(ErrTooManyArguments,
				"Error: Too many arguments to perform the operation %s", operation)
		}
		operands = append([]int64(nil), args...)
	}

	// Stack operands are committed before domain validation: a division by
	// zero or negative factorial below has still consumed them. Independent
	// flavor reaches this point without any mutation pending.
	if flavor == types.FlavorStack {
		if _, err := c.stack.PopN(op.Arity); err != nil {
			return types.Record{}, err
		}
	}

	if err := validateDomain(operation, operands); err != nil {
		return types.Record{}, err
	}

	rec := types.Record{
		Flavor:    flavor,
		Operation: operation,
		Arguments: operands,
		Result:    op.Apply(operands),
	}
	c.history.Record(rec)

	return rec, nil
}

// validateDomain applies the operation-specific operand checks. Names are
// matched case-insensitively, mirroring dispatch.
func validateDomain(operation string, operands []int64) error {
	switch strings.ToLower(operation) {
	case "divide":
		if operands[1] == 0 {
			return failf(ErrDivisionByZero,
				"Error while performing operation Divide: division by 0")
		}
	case "fact":
		if operands[0] < 0 {
			return failf(ErrNegativeFactorial,
				"Error while performing operation Factorial: not supported for the negative number")
		}
	}
	return nil
}

// Push appends values to the top of the stack in the given order and returns
// the new size. Pushing no values reports the current size unchanged.
func (c *Calculator) Push(values []int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack.PushAll(values)
}

// Delete removes quantity elements from the top of the stack and returns the
// new size. It fails, reporting the requested quantity against the actual
// size, when quantity exceeds the current depth; the history ledger is never
// touched either way. Delete(0) is a no-op.
func (c *Calculator) Delete(quantity int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack.PopN(quantity)
}

// Size returns the current operand stack depth.
func (c *Calculator) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stack.Size()
}

// StackView returns the whole stack top-first for inspection and debug
// logging. The copy is detached from later mutations.
func (c *Calculator) StackView() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stack.PeekTop(c.stack.Size())
}

// History returns recorded calculations: one flavor's sequence oldest-first,
// or, for the zero flavor, all STACK records followed by all INDEPENDENT
// records.
func (c *Calculator) History(flavor types.Flavor) []types.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.history.Query(flavor)
}

// LastCalc returns the most recent record of the flavor. It fails with
// ErrEmptyHistory when that flavor has no recorded entries yet.
func (c *Calculator) LastCalc(flavor types.Flavor) (types.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.history.Last(flavor)
}
