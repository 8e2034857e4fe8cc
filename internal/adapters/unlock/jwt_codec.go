package unlock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/contextkeys"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTTL is also the lifetime of the cookie carrying the token.
	TokenTTL = 365 * 24 * time.Hour
	issuer   = "listing-service"
)

// JWTCodec stores the unlocked property ids as a signed HS256 token.
type JWTCodec struct {
	signingKey []byte
	clock      port.Clock
}

var _ port.UnlockTokenPort = (*JWTCodec)(nil)

func NewJWTCodec(signingKey string, clock port.Clock) (*JWTCodec, error) {
	if signingKey == "" {
		return nil, errors.New("unlock token signing key cannot be empty")
	}
	if clock == nil {
		clock = port.SystemClock{}
	}
	return &JWTCodec{signingKey: []byte(signingKey), clock: clock}, nil
}

type unlockClaims struct {
	PropertyIDs []string `json:"property_ids"`
	jwt.RegisteredClaims
}

func (c *JWTCodec) Encode(ctx context.Context, ids []string) (string, error) {
	now := c.clock.Now()
	claims := &unlockClaims{
		PropertyIDs: normalizeIDs(ids),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign unlock token: %w", err)
	}
	return signed, nil
}

func (c *JWTCodec) Decode(ctx context.Context, token string) []string {
	if token == "" {
		return []string{}
	}
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "JWTCodec",
		"method":    "Decode",
	})

	claims := &unlockClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Info("Unlock token expired", nil)
		} else {
			logger.Warn("Rejected unlock token", port.Fields{"error": err.Error()})
		}
		return []string{}
	}
	return normalizeIDs(claims.PropertyIDs)
}

// normalizeIDs trims, drops empty values and removes duplicates, keeping first-seen order.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
