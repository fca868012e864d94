package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt at a configured
// cost factor (spec.md's Crypto config: bcryptCost in [4, 31]).
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher at cost. Invalid costs are clamped to
// bcrypt's supported range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HMACSigner computes and verifies HMAC-SHA256 signatures over arbitrary
// data using a shared secret, used for things like webhook payload
// signatures and CSRF tokens.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates a signer over secret.
func NewHMACSigner(secret []byte) *HMACSigner {
	return &HMACSigner{secret: secret}
}

// Sign returns the hex-free, base64 raw-URL-encoded HMAC-SHA256 of data.
func (s *HMACSigner) Sign(data []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the correct HMAC-SHA256 of data,
// using a constant-time comparison.
func (s *HMACSigner) Verify(data []byte, signature string) bool {
	expected := s.Sign(data)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// AESKeyCatalog implements the encryption envelope described by spec.md's
// Crypto config: multiple named AES-256-GCM keys so old ciphertexts stay
// decryptable across key rotation, with one key marked active for new
// encryptions. Envelopes are "<key-id>:<base64 nonce||ciphertext>".
type AESKeyCatalog struct {
	keys        map[string][]byte
	activeKeyID string
}

// NewAESKeyCatalog builds a catalog from base64-encoded 32-byte keys keyed
// by ID, with activeKeyID selecting the key Encrypt uses.
func NewAESKeyCatalog(keysBase64 map[string]string, activeKeyID string) (*AESKeyCatalog, error) {
	keys := make(map[string][]byte, len(keysBase64))
	for id, encoded := range keysBase64 {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", id, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("key %q must be 32 bytes for AES-256, got %d", id, len(key))
		}
		keys[id] = key
	}
	if activeKeyID != "" {
		if _, ok := keys[activeKeyID]; !ok {
			return nil, fmt.Errorf("active key id %q not present in catalog", activeKeyID)
		}
	}
	return &AESKeyCatalog{keys: keys, activeKeyID: activeKeyID}, nil
}

// Encrypt seals plaintext under the active key, returning an envelope
// string that records which key id to decrypt with.
func (c *AESKeyCatalog) Encrypt(plaintext []byte) (string, error) {
	if c.activeKeyID == "" {
		return "", fmt.Errorf("no active key configured")
	}
	key := c.keys[c.activeKeyID]

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("build cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("build GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return c.activeKeyID + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens an envelope produced by Encrypt, looking up the key id it
// was sealed under regardless of which key is currently active.
func (c *AESKeyCatalog) Decrypt(envelope string) ([]byte, error) {
	keyID, encoded, ok := splitEnvelope(envelope)
	if !ok {
		return nil, fmt.Errorf("malformed envelope")
	}
	key, ok := c.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", keyID)
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("build cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("build GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("envelope too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt envelope: %w", err)
	}
	return plaintext, nil
}

func splitEnvelope(envelope string) (keyID, encoded string, ok bool) {
	for i := 0; i < len(envelope); i++ {
		if envelope[i] == ':' {
			return envelope[:i], envelope[i+1:], true
		}
	}
	return "", "", false
}
