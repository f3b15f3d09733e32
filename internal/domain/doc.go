// Package domain holds the bookshelf entities (credentials, profiles and
// books), their constructors and validation rules, and the validation error
// type shared by the other layers. It imports no infrastructure packages.
package domain
