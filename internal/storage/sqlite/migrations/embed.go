package migrations

import "embed"

// FS contains embedded SQLite migrations for client snapshots and accounts.
//
//go:embed *.sql
var FS embed.FS
