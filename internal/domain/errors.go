package domain

import "errors"

// ErrNotFound is returned when a slug or id has no matching row.
// Handlers translate it to a 404; everything else is a store failure.
var ErrNotFound = errors.New("not found")
