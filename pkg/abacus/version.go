// Package abacus pins release metadata for the calculator service.
package abacus

const Version = "1.1.0"
