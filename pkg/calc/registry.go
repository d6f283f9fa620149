package calc

import "strings"

// Arity classes: the number of operands an operation consumes.
const (
	Unary  = 1
	Binary = 2
)

// Operation is a registry entry: an arity class and the pure function that
// computes the result. Apply assumes len(args) equals the arity and that
// domain validation (zero divisor, negative factorial) has already happened.
type Operation struct {
	Arity int
	Apply func(args []int64) int64
}

// registry is the fixed operation catalog, keyed by lower-case name.
// Dispatch is a plain map of function values; the set is closed and the map
// is never mutated after initialization.
var registry = map[string]Operation{
	"plus":   {Arity: Binary, Apply: func(a []int64) int64 { return a[0] + a[1] }},
	"minus":  {Arity: Binary, Apply: func(a []int64) int64 { return a[0] - a[1] }},
	"times":  {Arity: Binary, Apply: func(a []int64) int64 { return a[0] * a[1] }},
	"divide": {Arity: Binary, Apply: func(a []int64) int64 { return floorDiv(a[0], a[1]) }},
	"pow":    {Arity: Binary, Apply: func(a []int64) int64 { return ipow(a[0], a[1]) }},
	"abs":    {Arity: Unary, Apply: func(a []int64) int64 { return iabs(a[0]) }},
	"fact":   {Arity: Unary, Apply: func(a []int64) int64 { return factorial(a[0]) }},
}

// Lookup resolves an operation name case-insensitively. Keeping the original
// casing for messages and history is the caller's job.
func Lookup(name string) (Operation, bool) {
	op, ok := registry[strings.ToLower(name)]
	return op, ok
}

// floorDiv returns the quotient of a and b rounded toward negative infinity.
// The divisor must not be zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func iabs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ipow raises base to exp by binary exponentiation. Negative exponents have
// no integer reciprocal except for bases 1 and -1, so they yield 0 otherwise.
func ipow(base, exp int64) int64 {
	if exp < 0 {
		switch base {
		case 1:
			return 1
		case -1:
			if exp%2 == 0 {
				return 1
			}
			return -1
		default:
			return 0
		}
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// factorial computes n! iteratively. The operand must not be negative; the
// engine rejects negative input before dispatch.
func factorial(n int64) int64 {
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result
}
