package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/services"
	"github.com/danuarth/cvscout/internal/utils"
)

// DefaultMaxUploadBytes is the upload ceiling when none is configured.
const DefaultMaxUploadBytes = 5 << 20

type CVHandler struct {
	uploads  services.UploadService
	analysis services.AnalysisService
	maxBytes int64
}

func NewCVHandler(uploads services.UploadService, analysis services.AnalysisService, maxBytes int64) *CVHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &CVHandler{uploads: uploads, analysis: analysis, maxBytes: maxBytes}
}

func (h *CVHandler) Upload(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "missing multipart field 'file'", err))
		return
	}

	// all validation happens before any storage or database write
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > h.maxBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "file too large", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "CVHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}

	row, err := h.uploads.Upload(c.Request.Context(), ident, fh.Filename, fh.Size, "application/pdf", r)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

type AnalyzeRequest struct {
	FileURL    string `json:"file_url" binding:"required"`
	CVUploadID string `json:"cv_upload_id" binding:"required"`
}

// Analyze is the caller-initiated path: the retry button and the original
// synchronous trigger both land here.
func (h *CVHandler) Analyze(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Analyze", "missing required fields", err))
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), ident, req.CVUploadID, req.FileURL)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "CV analysis completed",
		"result":  result,
	})
}

func (h *CVHandler) Attempts(c *gin.Context) {
	ident, ok := requireIdentity(c)
	if !ok {
		return
	}

	attempts, err := h.analysis.Attempts(c.Request.Context(), ident, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
