package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/models"
	"github.com/danuarth/cvscout/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireIdentity(c *gin.Context) (models.Identity, bool) {
	ident := models.Identity{}
	if v, ok := c.Get("user_id"); ok {
		ident.UserID, _ = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		if s, _ := v.(string); s != "" {
			ident.Role = models.UserRole(s)
		}
	}
	if v, ok := c.Get("company_id"); ok {
		ident.CompanyID, _ = v.(string)
	}

	if ident.UserID == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
		return models.Identity{}, false
	}
	return ident, true
}
