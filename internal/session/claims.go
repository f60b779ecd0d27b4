package session

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"

	"github.com/sihhealth/healthbot/internal/domain"
)

var errOpaqueToken = errors.New("token is not a JWT")

// ParseClaims decodes an access token's payload without verifying its
// signature. The result is only used for display and refresh timing; the
// portal remains the authority on validity.
func ParseClaims(token string) (domain.TokenClaims, error) {
	if token == "" {
		return domain.TokenClaims{}, errOpaqueToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", errOpaqueToken, err)
	}

	out := domain.TokenClaims{}
	if v, ok := claims["user_id"]; ok && v != nil {
		out.UserID = fmt.Sprint(v)
	}
	if v, ok := claims["username"].(string); ok {
		out.Username = v
	}
	switch exp := claims["exp"].(type) {
	case float64:
		out.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	case int64:
		out.ExpiresAt = time.Unix(exp, 0).UTC()
	}
	return out, nil
}
