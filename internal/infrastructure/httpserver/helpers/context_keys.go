package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/movie-recommendation-service/go/internal/core/domain/auth"
)

type ctxKey string

const (
	keyClaims    ctxKey = "claims"
	keyUserID    ctxKey = "user_id"
	keyUserEmail ctxKey = "user_email"
)

// SetClaims stores validated token claims and the identity derived from them.
func SetClaims(c echo.Context, claims *auth.Claims) {
	c.Set(string(keyClaims), claims)
	c.Set(string(keyUserID), claims.UID)
	c.Set(string(keyUserEmail), claims.Email)
}

func GetClaimsRaw(c echo.Context) (*auth.Claims, bool) {
	v := c.Get(string(keyClaims))
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
