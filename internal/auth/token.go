// Package auth verifies the bearer tokens presented at connection time
// and on REST requests. Tokens are issued by the identity provider and
// signed with a shared HMAC secret; this package only verifies.
package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const defaultLeeway = 30 * time.Second

var (
	ErrTokenMissing = errors.New("access token required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity is the verified identity attached to a connection or request
// for its lifetime.
type Identity struct {
	UserID      int64
	Email       string
	DisplayName string
}

// Claims is the token payload the identity provider signs.
type Claims struct {
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// Verifier validates HS256 bearer tokens and extracts the identity.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("token verifier requires a secret")
	}
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(cfg.Issuer),
		leeway: leeway,
	}, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// All failure modes (absent, malformed, expired, bad signature) collapse
// into ErrInvalidToken; callers must refuse the connection before any
// room operations are possible.
func (v *Verifier) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrTokenMissing
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := Claims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:      claims.UserID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}, nil
}
