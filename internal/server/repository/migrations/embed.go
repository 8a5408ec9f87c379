// Package migrations embeds the goose migration files for the ledger
// PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
