// Package migrations embeds the schema for the client-local session store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
