// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, plus the goose
// migrations that create the schema. Queries go through database/sql with the
// pgx stdlib driver, and pgconn error codes are mapped onto store errors.
package postgres
