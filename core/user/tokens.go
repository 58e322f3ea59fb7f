package user

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"
)

const tokenBytes = 32

var randRead = rand.Read // mockable

type resetToken struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"` // UTC
}

func (rt resetToken) expired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// newToken generates a random url-safe token that `taken` does not already know about.
func newToken(taken func(string) bool) (string, error) {
	b := make([]byte, tokenBytes)
	for {
		if _, err := randRead(b); err != nil {
			return "", errors.Wrap(err, "reading random bytes")
		}
		token := base64.RawURLEncoding.EncodeToString(b)
		if !taken(token) {
			return token, nil
		}
	}
}

func (st *state) issueVerificationToken(email string) (string, error) {
	token, err := newToken(func(t string) bool {
		_, ok := st.VerificationTokens[t]
		return ok
	})
	if err != nil {
		return "", err
	}
	st.VerificationTokens[token] = email
	return token, nil
}

func (st *state) issueResetToken(email string, expiresAt time.Time) (string, error) {
	token, err := newToken(func(t string) bool {
		_, ok := st.ResetTokens[t]
		return ok
	})
	if err != nil {
		return "", err
	}
	st.ResetTokens[token] = resetToken{Email: email, ExpiresAt: expiresAt.UTC()}
	return token, nil
}
