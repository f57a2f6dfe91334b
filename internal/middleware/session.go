package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/response"
	"github.com/noah-isme/share2teach-api/pkg/session"
)

const contextSessionKey = "sessionID"

// SessionCookie describes the anonymous session cookie.
type SessionCookie struct {
	Name     string
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
}

// Sessions binds a browser to an anonymous session id held in store.
type Sessions struct {
	store  session.Store
	signer *session.Signer
	cookie SessionCookie
	logger *zap.Logger
}

// NewSessions constructs the session middleware factory.
func NewSessions(store session.Store, signer *session.Signer, cookie SessionCookie, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cookie.SameSite == 0 {
		cookie.SameSite = http.SameSiteLaxMode
	}
	return &Sessions{store: store, signer: signer, cookie: cookie, logger: logger}
}

// Ensure makes sure the request carries a live session, issuing a new cookie when needed.
func (s *Sessions) Ensure() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id, ok := s.current(c); ok {
			c.Set(contextSessionKey, id)
			c.Next()
			return
		}

		id, err := s.store.Create(ctx)
		if err != nil {
			response.Abort(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session"))
			return
		}
		s.setCookie(c, s.signer.Sign(id), s.cookie.MaxAge)
		c.Set(contextSessionKey, id)
		c.Next()
	}
}

// Destroy ends the request's session, if any, and clears the cookie.
func (s *Sessions) Destroy(c *gin.Context) {
	value, err := c.Cookie(s.cookie.Name)
	if err != nil {
		return
	}
	if id, err := s.signer.Verify(value); err == nil {
		if err := s.store.Destroy(c.Request.Context(), id); err != nil {
			s.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	s.setCookie(c, "", -1)
}

func (s *Sessions) current(c *gin.Context) (string, bool) {
	value, err := c.Cookie(s.cookie.Name)
	if err != nil || value == "" {
		return "", false
	}
	id, err := s.signer.Verify(value)
	if err != nil {
		return "", false
	}
	alive, err := s.store.Touch(c.Request.Context(), id)
	if err != nil {
		s.logger.Warn("failed to refresh session", zap.Error(err))
		return "", false
	}
	return id, alive
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(s.cookie.SameSite)
	c.SetCookie(s.cookie.Name, value, maxAge, "/", "", s.cookie.Secure, true)
}

// SessionID returns the anonymous session id bound by Ensure.
func SessionID(c *gin.Context) string {
	return c.GetString(contextSessionKey)
}
