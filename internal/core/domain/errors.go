package domain

import "errors"

// ErrNotFound is returned by stores when a key or cookie does not exist.
var ErrNotFound = errors.New("not found")
