// Package migrations embeds the goose SQL migrations for each SQL backend.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
