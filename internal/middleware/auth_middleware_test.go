package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/pkg/auth"
)

func newAuthTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtService)
	router := gin.New()
	protected := router.Group("", m.JWTAuth())
	protected.GET("/me", func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"userID": id})
	})
	adminOnly := protected.Group("", m.RoleRequired(string(models.RoleAdmin)))
	adminOnly.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func testJWTService(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "alumnihub.test",
	})
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := newAuthTestRouter(testJWTService(time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	router := newAuthTestRouter(testJWTService(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	jwtService := testJWTService(time.Hour)
	router := newAuthTestRouter(jwtService)

	token, _, err := jwtService.GenerateToken(&models.User{
		ID: 7, Username: "admin", RoleType: models.RoleAdmin,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userID":7`)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := testJWTService(-time.Minute)
	router := newAuthTestRouter(testJWTService(time.Hour))

	token, _, err := expired.GenerateToken(&models.User{ID: 7, Username: "admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleRequired(t *testing.T) {
	jwtService := testJWTService(time.Hour)
	router := newAuthTestRouter(jwtService)

	adminToken, _, err := jwtService.GenerateToken(&models.User{
		ID: 1, Username: "admin", RoleType: models.RoleAdmin,
	})
	require.NoError(t, err)
	viewerToken, _, err := jwtService.GenerateToken(&models.User{
		ID: 2, Username: "viewer", RoleType: models.RoleViewer,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+viewerToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
