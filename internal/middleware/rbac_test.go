package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psgtech/internship-undertaking-api/internal/models"
)

func rbacRouter(role models.Role, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	})
	r.POST("/submissions", RBAC(role), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	r := rbacRouter(models.RoleStudent, &models.JWTClaims{Email: "22z101@psgtech.ac.in", Role: models.RoleStudent})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submissions", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRBACWrongRoleIsUnauthorized(t *testing.T) {
	r := rbacRouter(models.RoleStudent, &models.JWTClaims{Email: "tutor@psgtech.ac.in", Role: models.RoleStaff})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submissions", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestRBACMissingClaimsIsUnauthorized(t *testing.T) {
	r := rbacRouter(models.RoleStudent, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/submissions", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
