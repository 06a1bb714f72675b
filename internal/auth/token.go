package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail parsing or validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenConfig configures HS256 bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Claims are the validated contents of a bearer token.
type Claims struct {
	UserID    int64
	Role      Role
	ID        string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// NewTokenIssuer validates cfg and builds an issuer.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("auth: token secret must be at least 16 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(cfg.Secret), issuer: cfg.Issuer, ttl: cfg.TTL, now: now}, nil
}

// Issue signs a token for the principal.
func (t *TokenIssuer) Issue(p Principal) (string, Claims, error) {
	now := t.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		Role: p.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, toClaims(claims, p.ID), nil
}

// Parse validates signature, issuer and expiry.
func (t *TokenIssuer) Parse(raw string) (Claims, error) {
	var claims tokenClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 || claims.ID == "" {
		return Claims{}, ErrInvalidToken
	}
	return toClaims(claims, userID), nil
}

func toClaims(c tokenClaims, userID int64) Claims {
	out := Claims{UserID: userID, Role: c.Role, ID: c.ID}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
