package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrBadCookie is returned for tampered or malformed cookie values.
var ErrBadCookie = errors.New("session: invalid cookie")

// Signer binds a session id to the server secret so clients cannot forge another rater's id.
type Signer struct {
	secret []byte
}

// NewSigner constructs a signer for the provided secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the cookie value for id.
func (s *Signer) Sign(id string) string {
	return id + "." + s.mac(id)
}

// Verify returns the session id carried by a cookie value.
func (s *Signer) Verify(value string) (string, error) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 || idx == len(value)-1 {
		return "", ErrBadCookie
	}
	id, sig := value[:idx], value[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(id))) {
		return "", ErrBadCookie
	}
	return id, nil
}

func (s *Signer) mac(id string) string {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
