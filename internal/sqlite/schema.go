// This file holds the schema DDL for the relational tape.
// Implements: prd002-sqlite-tape R2 (operations table).
package sqlite

// Schema DDL. rawid is assigned by Save, never by the database; the column
// is still the primary key so duplicate assignment fails loudly.
const createOperations = `CREATE TABLE IF NOT EXISTS operations (
    rawid INTEGER PRIMARY KEY,
    flavor TEXT NOT NULL,
    operation TEXT NOT NULL,
    arguments TEXT NOT NULL,
    result INTEGER NOT NULL
);`

const idxOperationsFlavor = `CREATE INDEX IF NOT EXISTS idx_operations_flavor ON operations(flavor);`

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createOperations,
	idxOperationsFlavor,
}
