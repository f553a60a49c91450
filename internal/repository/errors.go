// Package repository implements the SQL-backed directories behind
// the auth core: users, hospitals, doctors, patients and newsletter
// subscribers. Single-row reads return (nil, nil) when nothing
// matches, so callers can distinguish a missing record from an
// unreachable database. The sentinel values below cover the write
// paths.
package repository

import "errors"

// ErrConflict is returned when an insert collides with existing
// state, such as registering a second hospital for the same admin
// account. Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned by updates and deletes that matched no
// row. Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
