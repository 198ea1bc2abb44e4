// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package postgres

import (
	"context"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/zoneboard/zoneboard/internal/auth"
)

// readerRoleRegex restricts the privilege group to a plain lower-case
// identifier so it can be interpolated into DDL without quoting surprises.
var readerRoleRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Provisioner implements auth.RoleProvisioner: for every signed-up user it
// creates a login role named after the username and grants it membership
// in a fixed read-only group.
//
// CREATE ROLE and GRANT cannot take bind parameters, so the statements are
// assembled from a sanitized identifier (pgx.Identifier) and a quoted
// literal. Raw user input never reaches the statement text.
type Provisioner struct {
	pool       pool
	readerRole string
}

// NewProvisioner creates a Provisioner granting membership in readerRole.
func NewProvisioner(pool pool, readerRole string) (*Provisioner, error) {
	if !readerRoleRegex.MatchString(readerRole) {
		return nil, oops.Code("PROVISION_BAD_GROUP").
			With("reader_role", readerRole).
			Errorf("reader role must be a plain lower-case identifier")
	}
	return &Provisioner{pool: pool, readerRole: readerRole}, nil
}

// Provision creates the login role and grants it the reader group.
// It runs strictly after the credential row is inserted; a failure here
// leaves that row orphaned, which the caller surfaces.
func (p *Provisioner) Provision(ctx context.Context, username, password string) error {
	ident, err := sanitizeIdentifier(username)
	if err != nil {
		return err
	}
	literal, err := quoteLiteral(password)
	if err != nil {
		return err
	}

	if _, err := p.pool.Exec(ctx, "CREATE ROLE "+ident+" LOGIN PASSWORD "+literal); err != nil {
		return oops.Code("PROVISION_CREATE_FAILED").
			With("operation", "create role").
			With("username", username).
			Wrap(err)
	}

	group, err := sanitizeIdentifier(p.readerRole)
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, "GRANT "+group+" TO "+ident); err != nil {
		return oops.Code("PROVISION_GRANT_FAILED").
			With("operation", "grant reader group").
			With("username", username).
			With("reader_role", p.readerRole).
			Wrap(err)
	}

	return nil
}

// sanitizeIdentifier quotes a role name for use in DDL. NUL bytes and
// over-long names are rejected; everything else is double-quoted with
// embedded quotes doubled by pgx.
func sanitizeIdentifier(name string) (string, error) {
	if name == "" || len(name) > 63 || strings.ContainsRune(name, 0) {
		return "", oops.Code("PROVISION_BAD_IDENTIFIER").
			Errorf("role name is not a valid identifier")
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// quoteLiteral quotes a string literal for use in DDL. Embedded single
// quotes are doubled; with standard_conforming_strings (the server
// default) backslashes carry no escape meaning inside '...' literals.
func quoteLiteral(s string) (string, error) {
	if strings.ContainsRune(s, 0) {
		return "", oops.Code("PROVISION_BAD_LITERAL").
			Errorf("literal contains invalid characters")
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
}

// Compile-time interface check.
var _ auth.RoleProvisioner = (*Provisioner)(nil)
