package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/models"
)

// AccessGate enforces the page route policy:
//
//	prefix          admin           applicant       anonymous
//	/               -> /dashboard   -> /profile     allowed
//	/dashboard      allowed         -> /profile     -> /login
//	/profile        -> /dashboard   allowed         -> /login
//	/login /register allowed        allowed         allowed
//	anything else   allowed         allowed         -> /login
//
// The gate only decides; it never mutates session state.
func AccessGate(resolver *RoleResolver) gin.HandlerFunc {
	secret := os.Getenv("JWT_SECRET")

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		var ident models.Identity
		authed := false
		if raw := tokenFromRequest(c); raw != "" && secret != "" {
			ident, authed = identityFromToken(c.Request.Context(), raw, secret, resolver)
		}
		if authed {
			setIdentity(c, ident)
		}

		if strings.HasPrefix(path, "/login") || strings.HasPrefix(path, "/register") || path == "/ping" {
			c.Next()
			return
		}

		switch {
		case path == "/":
			if authed {
				if ident.Role == models.RoleCompanyAdmin {
					redirect(c, "/dashboard")
					return
				}
				redirect(c, "/profile")
				return
			}

		case strings.HasPrefix(path, "/dashboard"):
			if !authed {
				redirect(c, "/login")
				return
			}
			if ident.Role != models.RoleCompanyAdmin {
				redirect(c, "/profile")
				return
			}

		case strings.HasPrefix(path, "/profile"):
			if !authed {
				redirect(c, "/login")
				return
			}
			if ident.Role == models.RoleCompanyAdmin {
				redirect(c, "/dashboard")
				return
			}

		default:
			if !authed {
				redirect(c, "/login")
				return
			}
		}

		c.Next()
	}
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusFound, to)
	c.Abort()
}
