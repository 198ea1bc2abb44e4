// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints. Usernames double as Postgres role names,
// which are limited to 63 bytes; anything longer is rejected up front so
// malformed input never reaches the provisioning layer.
const (
	MinUsernameLength = 6
	MaxUsernameLength = 63
	minDomainLength   = 4
)

// HashedPassword is an opaque, algorithm-tagged password hash in PHC text
// encoding. It is only ever constructed from a fresh PasswordHasher.Hash
// result or a value read back from storage. Matching goes through
// PasswordHasher.Verify, never equality.
type HashedPassword string

// User represents an application account. The username is the primary
// identifier and mirrors a database login role created at signup.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash HashedPassword
	CreatedAt    time.Time
}

// NewUser creates a User with a validated username and a hash produced by
// a PasswordHasher. Direct struct initialization bypasses validation.
func NewUser(username string, hash HashedPassword) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if hash == "" {
		return nil, oops.Code("AUTH_EMPTY_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}, nil
}

// ValidateUsername validates an email-shaped username.
// Requirements:
//   - more than 5 characters overall, at most 63 bytes (Postgres role limit)
//   - exactly one @, neither leading nor trailing
//   - domain part longer than 3 characters containing an interior dot
//   - no NUL bytes
//
// This is a syntactic gate only; no DNS or mailbox validation happens here.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if strings.ContainsRune(username, 0) {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username contains invalid characters")
	}
	if strings.Count(username, "@") != 1 {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username must contain exactly one @")
	}
	local, domain, _ := strings.Cut(username, "@")
	if local == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username must have a local part before the @")
	}
	if len(domain) < minDomainLength {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username domain is too short")
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username domain must contain an interior dot")
	}
	return nil
}

// UserRepository manages credential-row persistence. It is the sole writer
// of the users table.
type UserRepository interface {
	// Create stores a new user. Returns an error wrapping ErrConflict on
	// a username uniqueness violation.
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves a user by username. Returns an error
	// wrapping ErrNotFound when absent; any other error indicates the
	// store is unavailable.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List returns all users ordered by username.
	List(ctx context.Context) ([]*User, error)
}

// RoleProvisioner creates the database-level principal that mirrors an
// application user: a login role named after the username, granted
// membership in a fixed read-only privilege group.
type RoleProvisioner interface {
	// Provision runs strictly after the credential row is inserted.
	// A failure leaves an orphaned credential row; callers surface it
	// loudly rather than repairing silently.
	Provision(ctx context.Context, username, password string) error
}
