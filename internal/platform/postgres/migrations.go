package postgres

import "embed"

// MigrationsFS carries the SQL migration files so the server binary can
// migrate its own schema without a checkout of the repository.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migration files inside MigrationsFS.
const MigrationsDir = "migrations"
