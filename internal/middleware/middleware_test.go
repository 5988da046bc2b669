package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited separately")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "window slid past the first requests")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	r := gin.New()
	r.GET("/", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = serve(r, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestCORS(t *testing.T) {
	cors, err := CORS([]string{"https://pages.nist.gov"}, `^https://random-cat-.*\.surge\.sh$`)
	require.NoError(t, err)

	r := gin.New()
	r.Use(cors)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://pages.nist.gov", true},
		{"https://random-cat-12.surge.sh", true},
		{"https://random-cat-12.surge.sh.evil.com", false},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", tt.origin)
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		if tt.allowed {
			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
			assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://pages.nist.gov")
	req.Header.Set("Access-Control-Request-Headers", "X-Custom")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "X-Custom", w.Header().Get("Access-Control-Allow-Headers"))

	_, err = CORS(nil, "(")
	assert.Error(t, err)
}

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/", Auth("secret"), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(SubjectKey)) })

	request := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return serve(r, req)
	}

	valid := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{
		Subject:   "ci",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	w := request(valid)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ci", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, request("").Code)
	assert.Equal(t, http.StatusUnauthorized, request("garbage").Code)

	wrongKey := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{Subject: "ci"})
	assert.Equal(t, http.StatusUnauthorized, request(wrongKey).Code)

	wrongAlg := signed(t, jwt.SigningMethodHS384, []byte("secret"), jwt.RegisteredClaims{Subject: "ci"})
	assert.Equal(t, http.StatusUnauthorized, request(wrongAlg).Code)

	expired := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{
		Subject:   "ci",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	assert.Equal(t, http.StatusUnauthorized, request(expired).Code)
}

func TestAuthDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", Auth(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestLoggerRecordsSubject(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	token := signed(t, jwt.SigningMethodHS256, []byte("secret"), jwt.RegisteredClaims{Subject: "travis"})

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/closed", Auth("secret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(RequestIDHeader, "req-1")
	serve(r, req)
	assert.Contains(t, buf.String(), "[req-1] travis GET /closed")

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(RequestIDHeader, "req-2")
	serve(r, req)
	assert.Contains(t, buf.String(), "[req-2] - GET /open")
}
