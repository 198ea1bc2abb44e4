// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
// The store's constraint is the authoritative arbiter for concurrent
// signups racing past the existence pre-check.
var ErrConflict = errors.New("already exists")
