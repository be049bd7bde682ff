// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish
// failure scenarios without inspecting raw driver errors: duplicate key
// violations in particular are translated here and never surfaced to the
// transport layer as-is.
package repository

import "errors"

// ErrNotFound is returned when a looked-up document does not exist.
// Handlers translate it into HTTP 404 (or 401 during identity
// resolution).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an account registration collides with
// an existing email in the same collection.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateInquiry is returned when a seeker already has an inquiry
// for the property. Handlers translate it into HTTP 400.
var ErrDuplicateInquiry = errors.New("duplicate inquiry")

// ErrDuplicateReview is returned when the unique (user, property) review
// index is violated by a concurrent writer. Handlers translate it into
// HTTP 400 with a friendly message.
var ErrDuplicateReview = errors.New("duplicate review")

// ErrAlreadySaved is returned when a property is already on the seeker's
// wishlist.
var ErrAlreadySaved = errors.New("already saved")
