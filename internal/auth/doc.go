// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

// Package auth provides the credential and provisioning pipeline for Zoneboard.
//
// # Domain Types
//
// User is the application account record. Its PasswordHash field is an
// opaque HashedPassword: only ever a freshly computed argon2id hash or a
// value read back from storage, never compared by equality - matching goes
// through PasswordHasher.Verify.
//
// # Services
//
// Service sequences the two user-facing flows:
//   - Signup - validate, existence check, hash, insert, provision database role
//   - Login - lookup, verify, issue session token
//
// Service is created with NewService, which validates dependencies.
package auth
