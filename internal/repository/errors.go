// Package repository provides typed access to the document store for
// each entity family, plus the reference resolver and the
// relation-list mutator shared by all of them.  Failures are reported
// through sentinel errors so handlers can translate them into
// structured HTTP responses: ErrValidation and ErrInvalidTransition
// map to 400, ErrNotFound to 404 and ErrConflict to 409.
package repository

import "errors"

// ErrValidation is returned when a required input field is missing or
// out of range (e.g. a station capacity outside 0-100).
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when a referenced entity is absent,
// including when dereferencing a resolved-to-nil reference.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a request status change is
// rejected by the state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrConflict is returned when an operation's preconditions are unmet,
// such as marking a request taken without a sender.
var ErrConflict = errors.New("conflict")
