package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai_readiness_backend/internal/config"
	"ai_readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	router := gin.New()
	router.GET("/admin/ping", AdminAuth(cfg), func(c *gin.Context) {
		claims := util.GetClaimsFromContext(c)
		require.NotNil(t, claims)
		c.JSON(http.StatusOK, gin.H{"operator": claims.Subject})
	})
	return router
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthAcceptsAdminToken(t *testing.T) {
	router := newAuthRouter(t)

	token, err := util.GenerateJWT("ops@example.com", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	router := newAuthRouter(t)

	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsBadSignature(t *testing.T) {
	router := newAuthRouter(t)

	token, err := util.GenerateJWT("ops@example.com", "admin", "another-secret", time.Hour)
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	router := newAuthRouter(t)

	token, err := util.GenerateJWT("user@example.com", "viewer", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAuthRejectsUnexpectedSigningMethod(t *testing.T) {
	router := newAuthRouter(t)

	// Correct secret, admin role, but signed with an alg the guard does
	// not accept.
	claims := &util.Claims{
		Subject: "ops@example.com",
		Role:    "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	router := newAuthRouter(t)

	token, err := util.GenerateJWT("ops@example.com", "admin", testSecret, -time.Minute)
	require.NoError(t, err)

	w := doRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
