package repositories

import "errors"

// ErrNotFound is returned when a lookup matches no record. Both GORM and
// in-memory implementations wrap it so callers can test with errors.Is.
var ErrNotFound = errors.New("record not found")
