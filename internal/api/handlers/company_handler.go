package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/services"
	"github.com/danuarth/cvscout/internal/utils"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry" binding:"required"`
	UserID   string `json:"user_id" binding:"required"`
}

// Create is the fallback creation endpoint for accounts registered before
// their company row existed.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CompanyHandler.Create", "missing required fields", err))
		return
	}

	company, err := h.svc.Create(c.Request.Context(), req.Name, req.Industry, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) RegistrationLink(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	link, err := h.svc.RegistrationLink(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registration_link": link})
}
