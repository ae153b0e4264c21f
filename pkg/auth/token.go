package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openksef/go-ksef/pkg/model"
)

// fillTokenExpiry reads the exp claim of a JWT credential when the server
// response did not carry an explicit expiry. The parse is unverified on
// purpose: the token's signature belongs to the service, not to this
// client, and the expiry is advisory either way.
func fillTokenExpiry(token *model.Token) {
	if token.Value == "" || !token.ExpiresAt.IsZero() {
		return
	}
	if expiry, ok := jwtExpiry(token.Value); ok {
		token.ExpiresAt = expiry
	}
}

func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
