package devserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"didclient/internal/domain"
)

var errInvalidToken = errors.New("invalid token")

// tokenIssuer mints and checks HS256 bearer tokens whose subject is the
// username.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (ti *tokenIssuer) issue(username domain.Username) (domain.Token, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  string(username),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ti.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ti.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return domain.Token(signed), nil
}

// subject validates raw and returns its username.
func (ti *tokenIssuer) subject(raw string) (domain.Username, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", errInvalidToken
	}
	return domain.Username(claims.Subject), nil
}
