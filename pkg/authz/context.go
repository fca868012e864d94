// Package authz builds and evaluates the authorization context every
// command handler and query gateway is given: who the caller is, what
// instance/org/project scope they're operating in, and what policy gates
// they clear. Contexts are immutable once built.
package authz

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType classifies the bearer of a request.
type TokenType string

const (
	TokenTypeUser    TokenType = "user"
	TokenTypeService TokenType = "service"
	TokenTypeSystem  TokenType = "system"
)

// Subject is the caller a context was built for.
type Subject struct {
	UserID         string
	Roles          []string
	Permissions    []string
	ServiceAccount bool
}

// Context is the immutable, per-request authorization context. It is never
// persisted; it is rebuilt from the incoming token on every request.
type Context struct {
	Subject          Subject
	TokenType        TokenType
	IsSystemToken    bool
	InstanceID       string
	OrgID            string
	ProjectID        string
	InstanceMetadata map[string]interface{}
	OrgMetadata      map[string]interface{}
	ProjectMetadata  map[string]interface{}
}

// TokenPayload is the shape of the JWT claims the context builder reads.
type TokenPayload struct {
	Subject        string   `json:"sub"`
	InstanceID     string   `json:"instance_id"`
	OrgID          string   `json:"org_id,omitempty"`
	ProjectID      string   `json:"project_id,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	TokenType      string   `json:"token_type,omitempty"`
	ServiceAccount bool     `json:"service_account,omitempty"`
	jwt.RegisteredClaims
}

// Builder parses bearer tokens into authorization contexts using a shared
// HMAC signing key.
type Builder struct {
	signingKey []byte
}

// NewBuilder creates a Builder that verifies tokens with signingKey.
func NewBuilder(signingKey []byte) *Builder {
	return &Builder{signingKey: signingKey}
}

// ParseToken verifies and decodes a bearer token into its payload.
func (b *Builder) ParseToken(tokenString string) (TokenPayload, error) {
	var payload TokenPayload
	token, err := jwt.ParseWithClaims(tokenString, &payload, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return b.signingKey, nil
	})
	if err != nil {
		return TokenPayload{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return TokenPayload{}, fmt.Errorf("token is not valid")
	}
	return payload, nil
}

// Build constructs an immutable Context from a token payload and the
// instance/org/project metadata the caller resolved alongside it (read from
// their respective projections by the request entry point).
func (b *Builder) Build(payload TokenPayload, instanceMetadata, orgMetadata, projectMetadata map[string]interface{}) Context {
	tokenType := TokenType(payload.TokenType)
	switch tokenType {
	case TokenTypeUser, TokenTypeService, TokenTypeSystem:
	default:
		tokenType = TokenTypeUser
	}

	return Context{
		Subject: Subject{
			UserID:         payload.Subject,
			Roles:          append([]string(nil), payload.Roles...),
			Permissions:    append([]string(nil), payload.Permissions...),
			ServiceAccount: payload.ServiceAccount,
		},
		TokenType:        tokenType,
		IsSystemToken:    tokenType == TokenTypeSystem,
		InstanceID:       payload.InstanceID,
		OrgID:            payload.OrgID,
		ProjectID:        payload.ProjectID,
		InstanceMetadata: instanceMetadata,
		OrgMetadata:      orgMetadata,
		ProjectMetadata:  projectMetadata,
	}
}

// BuildFromToken parses tokenString and builds a Context in one step.
func (b *Builder) BuildFromToken(tokenString string, instanceMetadata, orgMetadata, projectMetadata map[string]interface{}) (Context, error) {
	payload, err := b.ParseToken(tokenString)
	if err != nil {
		return Context{}, err
	}
	return b.Build(payload, instanceMetadata, orgMetadata, projectMetadata), nil
}

type contextKey struct{}

// WithContext attaches an authorization Context to ctx, for the request
// entry point to call once per inbound request after building it from the
// bearer token.
func WithContext(ctx context.Context, authzCtx Context) context.Context {
	return context.WithValue(ctx, contextKey{}, authzCtx)
}

// FromContext recovers the authorization Context attached by WithContext.
// ok is false when the request entry point never attached one (e.g. an
// internal/system-originated call).
func FromContext(ctx context.Context) (Context, bool) {
	authzCtx, ok := ctx.Value(contextKey{}).(Context)
	return authzCtx, ok
}
