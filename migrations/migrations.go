// Package migrations embeds the portal's Postgres schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
