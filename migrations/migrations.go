// Package migrations embeds the SQL schema migrations.
package migrations

import "embed"

// Files holds all *.up.sql migration files.
//
//go:embed *.sql
var Files embed.FS
