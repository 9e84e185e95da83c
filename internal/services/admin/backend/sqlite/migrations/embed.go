// Package migrations embeds the local backend schema.
package migrations

import "embed"

// FS holds the local backend SQL migrations.
//
//go:embed *.sql
var FS embed.FS
