package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the claims asserted by the identity provider.
// Subject carries the stable uid of the authenticated actor.
type UserClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}
