// Package migrations embeds the admin session schema.
package migrations

import "embed"

// FS holds the admin SQL migrations.
//
//go:embed *.sql
var FS embed.FS
