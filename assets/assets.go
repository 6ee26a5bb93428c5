package assets

import "embed"

// Migrations holds the SQL schema migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
