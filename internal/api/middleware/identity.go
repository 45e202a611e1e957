package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/danuarth/cvscout/internal/cache"
	"github.com/danuarth/cvscout/internal/models"
	pgrepo "github.com/danuarth/cvscout/internal/repositories/postgres"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}

// RoleResolver recovers role and tenant for tokens minted before those
// claims existed. Source of truth is the companies table (owning a company
// makes you an admin); the answer is cached in redis, never written back
// into any identity metadata.
type RoleResolver struct {
	Companies pgrepo.CompanyRepository
	Cache     cache.Cache
	Logger    *logrus.Logger
}

type resolvedMembership struct {
	Role      models.UserRole `json:"role"`
	CompanyID string          `json:"company_id"`
}

const roleCacheTTL = 24 * time.Hour

func (r *RoleResolver) Resolve(ctx context.Context, userID string) (models.UserRole, string) {
	cacheKey := "membership:" + userID

	if r.Cache != nil {
		var m resolvedMembership
		if hit, err := r.Cache.GetJSON(ctx, cacheKey, &m); err == nil && hit && m.Role != "" {
			return m.Role, m.CompanyID
		}
	}

	m := resolvedMembership{Role: models.RoleApplicant}
	if r.Companies != nil {
		if company, err := r.Companies.GetByOwner(ctx, userID); err == nil {
			m.Role = models.RoleCompanyAdmin
			m.CompanyID = company.ID
		}
	}

	if r.Cache != nil {
		if err := r.Cache.SetJSON(ctx, cacheKey, m, roleCacheTTL); err != nil && r.Logger != nil {
			r.Logger.WithError(err).WithField("user_id", userID).Debug("failed to cache membership")
		}
	}
	return m.Role, m.CompanyID
}

// tokenFromRequest accepts the bearer header (API callers) or the session
// cookie (page navigation).
func tokenFromRequest(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); raw != "" {
			return raw
		}
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func identityFromToken(ctx context.Context, raw, secret string, resolver *RoleResolver) (models.Identity, bool) {
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || tok == nil || !tok.Valid || claims.Subject == "" {
		return models.Identity{}, false
	}

	ident := models.Identity{
		UserID:    claims.Subject,
		Role:      models.UserRole(claims.Role),
		CompanyID: claims.CompanyID,
	}

	// legacy token without a role claim: fall back to the membership lookup
	if ident.Role == "" && resolver != nil {
		role, companyID := resolver.Resolve(ctx, ident.UserID)
		ident.Role = role
		if ident.CompanyID == "" {
			ident.CompanyID = companyID
		}
	}
	return ident, true
}

func setIdentity(c *gin.Context, ident models.Identity) {
	c.Set("user_id", ident.UserID)
	c.Set("role", string(ident.Role))
	c.Set("company_id", ident.CompanyID)
}
