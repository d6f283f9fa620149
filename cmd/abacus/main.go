// Command abacus runs the two-mode integer calculator service.
// Implements: prd007-abacus-cli (R1).
package main

import "github.com/mesh-intelligence/abacus/internal/cli"

func main() {
	cli.Execute()
}
