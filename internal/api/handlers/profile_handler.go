package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/services"
)

// ProfileHandler serves the applicant pages: identity plus own uploads with
// their pending/analyzed state.
type ProfileHandler struct {
	queries services.CVQueryService
}

func NewProfileHandler(queries services.CVQueryService) *ProfileHandler {
	return &ProfileHandler{queries: queries}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	rows, err := h.queries.ListForUser(c.Request.Context(), ident, 10)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": ident, "cvs": rows})
}

func (h *ProfileHandler) MyCVs(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.queries.ListForUser(c.Request.Context(), ident, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cvs": rows})
}

func (h *ProfileHandler) GetCV(c *gin.Context) {
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
