// Package data ships the transit database inputs: the schema and the seed
// scripts the initializer reads from disk.
package data

import "embed"

// FS holds schema.sql and seed/*.sql at the same relative paths the tools use
// under the project root.
//
//go:embed schema.sql seed/*.sql
var FS embed.FS

// Files lists the inputs in execution order.
var Files = []string{
	"schema.sql",
	"seed/stops_seed.sql",
	"seed/routes_seed.sql",
}
