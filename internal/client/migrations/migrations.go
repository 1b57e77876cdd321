// Package migrations embeds the goose SQL migrations for the uploader's
// local journal.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
