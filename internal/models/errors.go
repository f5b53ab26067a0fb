package models

import "errors"

// ErrNotFound is returned by repositories when a requested row does not exist.
var ErrNotFound = errors.New("not found")
