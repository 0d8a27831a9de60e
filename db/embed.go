// Package db provides the embedded database schema and catalog seed.
package db

import "embed"

// Schema contains the DDL statements for all storefront tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedFS holds the gzipped catalog seed consumed by cmd/seed-db.
//
//go:embed seed
var SeedFS embed.FS
