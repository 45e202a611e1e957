package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

func RequireRole(allowed ...string) gin.HandlerFunc {
	allow := map[string]struct{}{}
	for _, a := range allowed {
		a = strings.TrimSpace(strings.ToLower(a))
		if a != "" {
			allow[a] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		v, ok := c.Get("role")
		role, _ := v.(string)
		role = strings.ToLower(strings.TrimSpace(role))

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    utils.CodeForbidden,
				"message": "forbidden",
			})
			return
		}

		if _, ok := allow[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    utils.CodeForbidden,
				"message": "forbidden",
			})
			return
		}

		c.Next()
	}
}

func RequireCompanyAdmin() gin.HandlerFunc { return RequireRole(string(models.RoleCompanyAdmin)) }
func RequireApplicant() gin.HandlerFunc    { return RequireRole(string(models.RoleApplicant)) }

// RequireTenant rejects callers with no company membership. Upload routes
// need a tenant to scope the CV to.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get("company_id")
		companyID, _ := v.(string)
		if companyID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    utils.CodeUnauthorized,
				"message": "no company membership",
			})
			return
		}
		c.Next()
	}
}
