package migrations

import "embed"

// FS contains embedded SQLite migrations for slot registration storage.
//
//go:embed *.sql
var FS embed.FS
