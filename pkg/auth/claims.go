package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformedHeader = errors.New("malformed authorization header")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token has expired")
)

// Decoder turns the identity token of a request into claims. The claims are
// informational; nothing in the ask pipeline depends on them.
type Decoder struct {
	signingKey []byte
	parser     *jwt.Parser
}

// NewDecoder returns a decoder that verifies HMAC signatures with secret. An
// empty secret decodes tokens without verification.
func NewDecoder(secret string) *Decoder {
	return &Decoder{
		signingKey: []byte(secret),
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})),
	}
}

func (d *Decoder) Verifies() bool {
	return len(d.signingKey) > 0
}

// DecodeHeader splits "<scheme> <token>" and decodes the token.
func (d *Decoder) DecodeHeader(header string) (jwt.MapClaims, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, ErrMalformedHeader
	}
	return d.Decode(parts[1])
}

func (d *Decoder) Decode(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	if !d.Verifies() {
		if _, _, err := d.parser.ParseUnverified(tokenString, claims); err != nil {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	parsed, err := d.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return d.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
