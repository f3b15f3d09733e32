//go:build integration

// Package testdb opens a migrated PostgreSQL database for integration tests
// and isolates each test in a transaction that is always rolled back.
//
// Tests are skipped unless BOOKSHELF_TEST_DB_URL or DATABASE_URL is set. In CI
// a missing URL fails the test instead, so the suite cannot silently pass.
package testdb
