package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/services"
)

// DashboardHandler serves the company-admin pages: uploaded CVs across the
// whole tenant. The access gate has already routed non-admins away.
type DashboardHandler struct {
	queries services.CVQueryService
	company services.CompanyService
}

func NewDashboardHandler(queries services.CVQueryService, company services.CompanyService) *DashboardHandler {
	return &DashboardHandler{queries: queries, company: company}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	company, err := h.company.GetForAdmin(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}

	rows, total, err := h.queries.ListForCompany(c.Request.Context(), ident, 10)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":       company,
		"recent_cvs":    rows,
		"total_uploads": total,
	})
}

func (h *DashboardHandler) ListCVs(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, total, err := h.queries.ListForCompany(c.Request.Context(), ident, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cvs": rows, "total": total})
}

func (h *DashboardHandler) GetCV(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	row, err := h.queries.Get(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}
