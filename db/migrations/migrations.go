// Package migrations embeds the goose migrations for the local run-history
// database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
