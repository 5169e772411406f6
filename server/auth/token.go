package auth

import (
	"os"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
)

const (
	// TokenIssuer is stamped into every session token and required back on
	// verification, so tokens minted by other services are rejected.
	TokenIssuer = "problog"

	sessionTTL = 7 * 24 * time.Hour
)

func sessionSecret() ([]byte, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	return []byte(secret), nil
}

// IssueSessionToken mints a signed session token whose subject is the user
// id. The token is the only session state the server hands out; there is no
// server side session table.
func IssueSessionToken(userId string) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	tok, err := jwt.NewBuilder().
		Issuer(TokenIssuer).
		Subject(userId).
		IssuedAt(now).
		Expiration(now.Add(sessionTTL)).
		Build()
	if err != nil {
		return "", errors.Wrap(err, "fail to build session token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		return "", errors.Wrap(err, "fail to sign session token")
	}
	return string(signed), nil
}

// VerifySessionToken validates signature, issuer and expiry, and returns the
// verified user id.
func VerifySessionToken(raw string) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}

	tok, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256, secret),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithValidate(true),
	)
	if err != nil {
		return "", errors.Wrap(err, "invalid session token")
	}
	return tok.Subject(), nil
}
