package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, sub, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString(secret)
	require.NoError(t, err)
	return s
}

func newRouter(auth *Auth, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{auth.RequireAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, auth.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id.String())
	})
	r.GET("/me", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	auth := NewAuth(testSecret)
	r := newRouter(auth)
	userID := uuid.New()

	w := do(r, signToken(t, testSecret, userID.String(), "seller"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, []byte("other"), userID.String(), "seller")).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, signToken(t, testSecret, "not-a-uuid", "seller")).Code)
}

func TestRequireAuth_Cookie(t *testing.T) {
	auth := NewAuth(testSecret)
	r := newRouter(auth)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, testSecret, uuid.NewString(), "seller")})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	auth := NewAuth(testSecret)
	r := newRouter(auth, RoleAdmin)

	assert.Equal(t, http.StatusOK, do(r, signToken(t, testSecret, uuid.NewString(), RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, signToken(t, testSecret, uuid.NewString(), "seller")).Code)
}
