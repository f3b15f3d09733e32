// Package service contains the application use cases: login and
// registration, profile management including the profile/book
// relationship, and the book catalog with its external ISBN lookup.
//
// Services depend on the store interfaces, never on a concrete database.
// Operations that touch more than one row set run inside
// store.RunInTransaction with transaction-scoped stores obtained via WithTx.
//
// Expected failures are returned as the sentinel errors in errors.go,
// usually wrapped with the offending id; unexpected failures are wrapped in
// a ServiceError. The API layer maps both to HTTP responses.
package service
