// Package repository implements data access over the relational
// store.  Sentinel errors defined here let higher layers distinguish
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Handlers
// and services translate it into a 404 or a typed business error.
var ErrNotFound = errors.New("not found")
