// Package ledger keeps a SQLite history of translation runs and the
// outcome of every batch. It only records; runs never read it back.
package ledger
