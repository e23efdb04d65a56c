// Package db embeds the SQL migration files applied by cmd/migrate and the
// migrate runner.
package db

import "embed"

//go:embed migrations/*.sql
var MigrationFS embed.FS
