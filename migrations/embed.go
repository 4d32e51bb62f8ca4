// Package migrations holds the schema for the postgres store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
