package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when an insert collides with a unique key.
var ErrAlreadyExists = errors.New("already exists")
