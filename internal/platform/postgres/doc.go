// Package postgres implements the internal/store interfaces against
// PostgreSQL. It maps rows to domain entities, translates driver errors
// to store sentinels, and embeds the schema migrations the server runs
// with its -migrate flag.
package postgres
