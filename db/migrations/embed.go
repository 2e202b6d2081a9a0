// Package migrations embeds the SQL schema files.
package migrations

import "embed"

// Files holds the ordered migration scripts.
//
//go:embed *.sql
var Files embed.FS
