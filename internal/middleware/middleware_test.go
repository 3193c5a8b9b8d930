package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/helpdesk-presence-api/internal/models"
	"github.com/noah-isme/helpdesk-presence-api/internal/service"
	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
	err    error
}

func (s tokenValidatorStub) ValidateToken(string) (*models.JWTClaims, error) {
	return s.claims, s.err
}

func newProtectedRouter(validator tokenValidator, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := []gin.HandlerFunc{JWT(validator)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserIDKey))
	})
	r.GET("/protected", chain...)
	return r
}

func TestJWTMissingHeader(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTStoresCaller(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{claims: &models.JWTClaims{UserID: "agent-1", Role: models.RoleAgent}})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "agent-1", w.Body.String())
}

func TestRequireRolesForbidsAgents(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{claims: &models.JWTClaims{UserID: "agent-1", Role: models.RoleAgent}},
		models.RoleAdmin, models.RoleSuperAdmin)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsAdmins(t *testing.T) {
	r := newProtectedRouter(tokenValidatorStub{claims: &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}},
		models.RoleAdmin, models.RoleSuperAdmin)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/presence/days/:date", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/presence/days/2025-01-20", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/presence/days/2025-01-21", nil))

	assert.Equal(t, uint64(2), metrics.Snapshot().RequestsTotal)
}
