package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/services"
	"github.com/danuarth/cvscout/internal/utils"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Type     string `json:"type" binding:"required"` // company|applicant
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`

	// company registration
	Name     string `json:"name"`
	Industry string `json:"industry"`

	// applicant registration (from a company's registration link)
	CompanyID string `json:"company_id"`
}

type AuthResponse struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user"`
	Company *models.Company `json:"company,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", "invalid request body", err))
		return
	}

	switch req.Type {
	case "company":
		user, company, token, err := h.svc.RegisterCompany(c.Request.Context(), req.Email, req.Password, req.Name, req.Industry)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user, Company: company})

	case "applicant":
		user, token, err := h.svc.RegisterApplicant(c.Request.Context(), req.Email, req.Password, req.CompanyID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})

	default:
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Register", "type must be company or applicant", nil))
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Login", "invalid request body", err))
		return
	}

	user, token, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ident)
}
