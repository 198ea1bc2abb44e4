// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service sequences the signup and login flows.
type Service struct {
	users       UserRepository
	provisioner RoleProvisioner
	hasher      PasswordHasher
	logger      *slog.Logger
}

// NewService creates a new Service.
func NewService(users UserRepository, provisioner RoleProvisioner, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, provisioner, hasher, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(users UserRepository, provisioner RoleProvisioner, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if provisioner == nil {
		return nil, oops.Errorf("role provisioner is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		users:       users,
		provisioner: provisioner,
		hasher:      hasher,
		logger:      logger,
	}, nil
}

// dummyPasswordHash is verified against when a user doesn't exist so that
// the unknown-user and wrong-password paths cost the same. This is NOT a
// real credential; it never matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing equalization, not a credential.
const dummyPasswordHash = HashedPassword("$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

// Login authenticates a user and issues a session token.
// The unknown-user and wrong-password outcomes are deliberately
// indistinguishable: both return AUTH_INVALID_CREDENTIALS, and password
// verification runs in both cases.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return "", oops.Code("STORE_UNAVAILABLE").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// A stored hash that fails to parse maps to the same outcome as
		// a mismatch so responses stay uniform; the cause is logged.
		if userExists {
			s.logger.Error("stored password hash is malformed",
				"username", username, "error", verifyErr)
		}
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	if !userExists || !valid {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
	}

	token, err := IssueSessionToken()
	if err != nil {
		return "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	return token, nil
}

// Signup registers a new user and provisions its database role.
// The existence pre-check is a fast-path UX optimization only; the unique
// constraint on the insert is the authoritative conflict signal for
// concurrent signups racing past the pre-check.
func (s *Service) Signup(ctx context.Context, username, password string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, oops.Code("AUTH_USERNAME_TAKEN").
			With("username", username).
			Errorf("username is already taken")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("STORE_UNAVAILABLE").
			With("operation", "check username").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(username, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(err)
		}
		return nil, oops.Code("STORE_UNAVAILABLE").
			With("operation", "insert user").
			Wrap(err)
	}

	if err := s.provisioner.Provision(ctx, username, password); err != nil {
		// The credential row from the insert above remains without a
		// matching database role. Surfaced here, not auto-rolled-back;
		// reconciliation is an operator action.
		s.logger.Error("role provisioning failed, credential row is orphaned",
			"username", username, "error", err)
		return nil, oops.Code("PROVISION_FAILED").
			With("operation", "provision database role").
			With("username", username).
			Wrap(err)
	}

	return user, nil
}

// Users returns all registered users.
func (s *Service) Users(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("STORE_UNAVAILABLE").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}
