// Package identity verifies bearer tokens and carries the caller identity.
package identity

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
)

// Environment variable names for token verification.
const (
	EnvAuthIssuer    = "CROWDFUND_AUTH_ISSUER"
	EnvAuthAudience  = "CROWDFUND_AUTH_AUDIENCE"
	EnvAuthPublicKey = "CROWDFUND_AUTH_PUBLIC_KEY"
)

// identityEnv holds raw env values before post-parse validation.
type identityEnv struct {
	Issuer    string `env:"CROWDFUND_AUTH_ISSUER"`
	Audience  string `env:"CROWDFUND_AUTH_AUDIENCE"`
	PublicKey string `env:"CROWDFUND_AUTH_PUBLIC_KEY"`
}

// Config defines how bearer tokens are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether token verification is configured.
func (c Config) Enabled() bool {
	return len(c.Key) == ed25519.PublicKeySize
}

// Principal identifies an authenticated caller.
type Principal struct {
	Subject string
}

// LoadConfigFromEnv reads token verification configuration. An empty
// CROWDFUND_AUTH_PUBLIC_KEY disables verification entirely.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw identityEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse identity env: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		return Config{Now: now}, nil
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	if issuer == "" {
		return Config{}, fmt.Errorf("CROWDFUND_AUTH_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("CROWDFUND_AUTH_AUDIENCE is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode auth public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("auth public key must be %d bytes", ed25519.PublicKeySize)
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// VerifyToken verifies a bearer token and returns the caller principal.
func VerifyToken(token string, cfg Config) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, apperrors.New(apperrors.CodeIdentityTokenInvalid, "bearer token is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if !cfg.Enabled() {
		return Principal{}, errors.New("token verifier is not configured")
	}

	var parsed jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Principal{}, mapJWTError(err)
	}

	if cfg.Issuer != "" && parsed.Issuer != cfg.Issuer {
		return Principal{}, apperrors.WithMetadata(
			apperrors.CodeIdentityTokenInvalid,
			"token issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if cfg.Audience != "" && !audienceContains(parsed.Audience, cfg.Audience) {
		return Principal{}, apperrors.WithMetadata(
			apperrors.CodeIdentityTokenInvalid,
			"token audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}

	if parsed.ExpiresAt == nil {
		return Principal{}, apperrors.New(apperrors.CodeIdentityTokenInvalid, "token exp is required")
	}
	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return Principal{}, apperrors.New(apperrors.CodeIdentityTokenExpired, "token is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Principal{}, apperrors.New(apperrors.CodeIdentityTokenInvalid, "token not active yet")
	}

	subject := strings.TrimSpace(parsed.Subject)
	if subject == "" {
		return Principal{}, apperrors.New(apperrors.CodeIdentityTokenInvalid, "token sub is required")
	}
	return Principal{Subject: subject}, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeIdentityTokenInvalid, "token signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeIdentityTokenInvalid, "token alg is invalid")
	}
	return apperrors.New(apperrors.CodeIdentityTokenInvalid, "token is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}

type principalKey struct{}

// WithPrincipal returns a context carrying the caller principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext extracts the caller principal from the context, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
