// Package migrations embeds the goose SQL migrations for the persistent
// region store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
