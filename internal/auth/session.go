// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/samber/oops"
)

// Session token configuration.
const (
	// SessionTokenBytes is the raw entropy per token. 32 bytes encodes to
	// 64 hex characters.
	SessionTokenBytes = 32

	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "session_id"
)

// IssueSessionToken mints an opaque bearer token from crypto/rand.
// The token is bound to no server-side state; it is handed to the client
// as-is. Validating it on later requests is a known gap.
func IssueSessionToken() (string, error) {
	buf := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("SESSION_TOKEN_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// SessionCookie describes how a session token is carried back to the
// client: HttpOnly, SameSite=Lax, path /, session-lifetime (no expiry).
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
