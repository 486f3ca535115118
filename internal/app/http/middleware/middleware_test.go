package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vo-directory/internal/domain/access"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver map[string]access.Session

func (r stubResolver) Resolve(_ context.Context, raw string) access.Session {
	if s, ok := r[raw]; ok {
		return s
	}
	return access.Anonymous()
}

var sessions = stubResolver{
	"admin":  {IsAuthenticated: true, IsAdmin: true, UserID: 1, Email: "admin@vo.test"},
	"member": {IsAuthenticated: true, UserID: 2, Email: "member@vo.test"},
}

func TestBearerOrCookie(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"bearer wins over cookie", "Bearer abc", "def", "abc"},
		{"other scheme ignores cookie", "Basic xyz", "def", ""},
		{"cookie", "", "def", "def"},
		{"nothing", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				c.Request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				c.Request.AddCookie(&http.Cookie{Name: "vo_session", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, BearerOrCookie(c, "vo_session"))
		})
	}
}

func TestSessionFromWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, access.Anonymous(), SessionFrom(c))
}

func guarded(guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Session(sessions, "vo_session"))
	r.GET("/x", guard, func(c *gin.Context) {
		c.String(http.StatusOK, SessionFrom(c).Email)
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdminPage(t *testing.T) {
	r := guarded(RequireAdminPage())

	w := get(r, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = get(r, "member")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = get(r, "admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@vo.test", w.Body.String())
}

func TestRequireAdminAPI(t *testing.T) {
	r := guarded(RequireAdminAPI())

	w := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","redirect":"/login"}`, w.Body.String())

	w = get(r, "member")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied","redirect":"/"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(r, "admin").Code)
}

func TestRequireAuthAPI(t *testing.T) {
	r := guarded(RequireAuthAPI())
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "member").Code)
}

func TestSanitizeJSONBody(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	do := func(body, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(`{"name":"<script>x</script>Jane","tags":["<b>a</b>"],"n":3}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"Jane","tags":["a"],"n":3}`, w.Body.String())

	w = do(`{"name":`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do("", "application/json")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do("<b>raw</b>", "text/plain")
	assert.Equal(t, "<b>raw</b>", w.Body.String())
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(2)
	now := time.Unix(1700000000, 0)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("1.1.1.1"))
	assert.False(t, l.Allow("1.1.1.1"))
	assert.True(t, l.Allow("2.2.2.2"), "limits are per ip")

	now = now.Add(30 * time.Second)
	assert.True(t, l.Allow("1.1.1.1"), "one token refills every 30s")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
