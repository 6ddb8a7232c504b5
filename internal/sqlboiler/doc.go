// Package sqlboiler holds the row types bound by sqlboiler's queries package.
// Field tags name the Postgres columns of schema.sql.
package sqlboiler
