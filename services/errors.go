package services

import "errors"

// ErrNotFound covers rows that do not exist or belong to another user.
var ErrNotFound = errors.New("not found")
