// Package journal records fwconv conversion runs in a SQLite database.
//
// Each generate or parse invocation inserts a row when it starts and updates
// it with the final status, line count and error text when it finishes. The
// schema is embedded and version-checked on open; a mismatch is reported
// instead of migrated, and the database file can simply be deleted.
package journal
