package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/internal/models"
	appErrors "github.com/noah-isme/share2teach-api/pkg/errors"
	"github.com/noah-isme/share2teach-api/pkg/ratelimit"
	"github.com/noah-isme/share2teach-api/pkg/session"
)

type stubTokens struct {
	claims map[string]*models.JWTClaims
}

func (s stubTokens) Revalidate(_ context.Context, raw string) (*models.JWTClaims, error) {
	if claims, ok := s.claims[raw]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Token is invalid due to version mismatch")
}

var tokens = stubTokens{claims: map[string]*models.JWTClaims{
	"admin-token":    {UserID: 1, Role: models.RoleAdmin},
	"educator-token": {UserID: 2, Role: models.RoleEducator},
}}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		role := ""
		if claims := Claims(c); claims != nil {
			role = string(claims.Role)
		}
		c.String(http.StatusOK, role)
	})
	r.GET("/", handlers...)
	return r
}

func perform(r http.Handler, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorize(t *testing.T) {
	r := newEngine(Authorize(tokens))

	w := perform(r, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"msg":"Authorization denied"}`, w.Body.String())

	w = perform(r, TokenHeader, "stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "version mismatch")

	w = perform(r, TokenHeader, "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	w = perform(r, "Authorization", "Bearer educator-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "educator", w.Body.String())
}

func TestOptionalAuthVariants(t *testing.T) {
	lenient := newEngine(OptionalAuth(tokens))
	w := perform(lenient, TokenHeader, "stale")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	strict := newEngine(StrictOptionalAuth(tokens))
	w = perform(strict, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(strict, TokenHeader, "stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(strict, TokenHeader, "educator-token")
	assert.Equal(t, "educator", w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	r := newEngine(Authorize(tokens), RequireRoles(models.RoleModerator, models.RoleAdmin))

	w := perform(r, TokenHeader, "educator-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"msg":"Access denied"}`, w.Body.String())

	w = perform(r, TokenHeader, "admin-token")
	assert.Equal(t, http.StatusOK, w.Code)

	bare := newEngine(RequireRoles(models.RoleAdmin))
	w = perform(bare, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"msg":"Authorization denied"}`, w.Body.String())
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(ratelimit.NewMemoryLimiter(2, time.Minute), false, nil, nil))

	for i := 0; i < 2; i++ {
		w := perform(r, "", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := perform(r, "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"msg":"Too many upload attempts from this IP, please try again later."}`, w.Body.String())
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

}

func TestRateLimitBackendFailure(t *testing.T) {
	closed := newEngine(RateLimit(failingLimiter{}, false, nil, nil))
	w := perform(closed, "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"msg":"Rate limiter unavailable"}`, w.Body.String())

	open := newEngine(RateLimit(failingLimiter{}, true, nil, nil))
	assert.Equal(t, http.StatusOK, perform(open, "", "").Code)
}

func TestSessionsEnsureReusesCookie(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sessions := NewSessions(store, session.NewSigner("secret"), SessionCookie{Name: "sid", MaxAge: 3600}, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", sessions.Ensure(), func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })
	r.POST("/logout", func(c *gin.Context) {
		sessions.Destroy(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	require.NotEmpty(t, first)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
	assert.Empty(t, w.Result().Cookies())

	forged := &http.Cookie{Name: "sid", Value: first + ".bogus"}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(forged)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, first, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	alive, err := store.Touch(context.Background(), first)
	require.NoError(t, err)
	assert.False(t, alive)
}

type visitSpy struct {
	pages []string
	users []*int64
}

func (v *visitSpy) Visit(_ context.Context, userID *int64, page string) {
	v.pages = append(v.pages, page)
	v.users = append(v.users, userID)
}

func TestPageVisitSkipsFailures(t *testing.T) {
	spy := &visitSpy{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", OptionalAuth(tokens), PageVisit(spy, "documents"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", PageVisit(spy, "broken"), func(c *gin.Context) { c.Status(http.StatusNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(TokenHeader, "educator-token")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, []string{"documents"}, spy.pages)
	require.NotNil(t, spy.users[0])
	assert.Equal(t, int64(2), *spy.users[0])
}
