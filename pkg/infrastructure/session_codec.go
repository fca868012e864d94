package infrastructure

import (
	"fmt"

	"github.com/gorilla/securecookie"
)

// SessionPayload is the data embedded in an opaque session bearer token:
// just enough to look the session row up and confirm it hasn't been
// tampered with. The authoritative session state (instance, user, expiry,
// revocation) lives in the sessions projection row itself.
type SessionPayload struct {
	SessionID string
	InstanceID string
}

// SessionCodec encodes and decodes opaque session tokens handed to clients,
// using securecookie's authenticated encryption so a token can't be forged
// or read without the server's keys.
type SessionCodec struct {
	sc *securecookie.SecureCookie
}

// NewSessionCodec builds a codec from a hash key (required, 32 or 64 bytes)
// and an optional block key (16, 24, or 32 bytes) enabling encryption in
// addition to authentication.
func NewSessionCodec(hashKey, blockKey []byte) *SessionCodec {
	return &SessionCodec{sc: securecookie.New(hashKey, blockKey)}
}

// Encode produces an opaque token string for payload.
func (c *SessionCodec) Encode(payload SessionPayload) (string, error) {
	token, err := c.sc.Encode("session", payload)
	if err != nil {
		return "", fmt.Errorf("encode session token: %w", err)
	}
	return token, nil
}

// Decode recovers the payload from a token produced by Encode. Returns an
// error if the token is malformed, expired (securecookie MaxAge), or fails
// authentication.
func (c *SessionCodec) Decode(token string) (SessionPayload, error) {
	var payload SessionPayload
	if err := c.sc.Decode("session", token, &payload); err != nil {
		return SessionPayload{}, fmt.Errorf("decode session token: %w", err)
	}
	return payload, nil
}
