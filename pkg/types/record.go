package types

import "strings"

// Flavor tags the execution mode of a calculation: operands drawn implicitly
// from the shared operand stack, or supplied explicitly per call. The zero
// value means "unspecified" and selects all flavors in history queries.
type Flavor string

// Recognized flavors.
const (
	FlavorStack       Flavor = "STACK"
	FlavorIndependent Flavor = "INDEPENDENT"
)

// ParseFlavor normalizes a caller-supplied flavor string. The boolean reports
// whether the string named a recognized flavor; unrecognized values (including
// the empty string) return the zero Flavor.
func ParseFlavor(s string) (Flavor, bool) {
	switch Flavor(strings.ToUpper(s)) {
	case FlavorStack:
		return FlavorStack, true
	case FlavorIndependent:
		return FlavorIndependent, true
	}
	return "", false
}

// Record is one successful calculation. Records are immutable once created:
// the history ledger and the tapes append them and never modify them.
type Record struct {
	Flavor    Flavor  `json:"flavor"`
	Operation string  `json:"operation"` // original caller-supplied casing
	Arguments []int64 `json:"arguments"` // operands in evaluation order
	Result    int64   `json:"result"`
}
