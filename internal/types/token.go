package types

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims carried by a tracker-issued bearer token. The
// subject is the numeric user ID.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// UserID parses the numeric subject.
func (c *TokenClaims) UserID() (int64, error) {
	sub, err := c.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(sub, 10, 64)
}
