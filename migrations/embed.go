// Package migrations embeds the SQL schema migrations applied by cmd/migrate.
package migrations

import "embed"

// FS holds the up/down migration files.
//
//go:embed *.sql
var FS embed.FS
