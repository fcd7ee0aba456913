// Package migrations embeds the goose SQL migrations for the Postgres
// backend so the API server, planitctl and integration tests apply the same
// schema without depending on a filesystem path.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
