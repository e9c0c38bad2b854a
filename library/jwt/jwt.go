// Package jwt verifies bearer tokens issued by the identity provider.
package jwt

import (
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	jwtLib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Callers must
// not learn whether a token was malformed, expired, or badly signed.
var ErrInvalidToken = errors.New("invalid token")

var Instance *JWT

func Initialize(secret []byte) (err error) {
	Instance, err = New(secret)
	return err
}

// JWT verifies and signs HS256 tokens with a shared secret.
type JWT struct {
	secret []byte
}

func New(secret []byte) (*JWT, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty jwt secret")
	}

	return &JWT{secret: secret}, nil
}

// Verify parses the bearer token and returns its claims.
// All failures collapse into ErrInvalidToken.
func (j *JWT) Verify(token string) (*UserClaims, error) {
	uc := new(UserClaims)
	parsed, err := jwtLib.ParseWithClaims(token, uc,
		func(*jwtLib.Token) (any, error) { return j.secret, nil },
		jwtLib.WithValidMethods([]string{jwtLib.SigningMethodHS256.Alg()}),
		jwtLib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || uc.Subject == "" {
		return nil, errors.WithStack(ErrInvalidToken)
	}

	return uc, nil
}

// Sign issues a token for the given uid, used by provisioning and tests.
func (j *JWT) Sign(uid, email string, ttl time.Duration) (string, error) {
	now := gutils.Clock.GetUTCNow()
	uc := &UserClaims{
		RegisteredClaims: jwtLib.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwtLib.NewNumericDate(now),
			ExpiresAt: jwtLib.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	token, err := jwtLib.NewWithClaims(jwtLib.SigningMethodHS256, uc).
		SignedString(j.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return token, nil
}
