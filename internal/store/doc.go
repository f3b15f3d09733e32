// Package store defines the persistence interfaces for credentials, profiles
// and books, the errors implementations must return, and RunInTransaction.
//
// Every store exposes WithTx so services can compose several writes inside
// one RunInTransaction call.
package store
