// Package migrations holds the schema for each supported SQL dialect.
package migrations

import "embed"

// FS contains postgres/*.sql and sqlite/*.sql in golang-migrate file naming.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
