package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
	"github.com/mindmate-app/planner-api/pkg/response"
	"github.com/mindmate-app/planner-api/pkg/storage"
)

var allowedDatesheetExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

type deleteDatesheetsRequest struct {
	Files []string `json:"files" binding:"required,min=1"`
}

// DatesheetHandler manages uploaded exam datesheet images that feed the
// exam extraction flow.
type DatesheetHandler struct {
	store          *storage.LocalStorage
	maxUploadBytes int64
}

// NewDatesheetHandler constructs the handler.
func NewDatesheetHandler(store *storage.LocalStorage, maxUploadBytes int64) *DatesheetHandler {
	return &DatesheetHandler{store: store, maxUploadBytes: maxUploadBytes}
}

// Upload godoc
// @Summary Upload an exam datesheet image
// @Tags Datesheet
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Datesheet image (png, jpg, webp)"
// @Success 201 {object} response.Envelope
// @Router /datesheet [post]
func (h *DatesheetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "multipart field 'file' is required"))
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the upload size limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedDatesheetExtensions[ext] {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "only png, jpg and webp images are accepted"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	stored, err := h.store.Save(currentUserID(c), fileHeader.Filename, data)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store datesheet"))
		return
	}

	response.Created(c, gin.H{"file": stored})
}

// List godoc
// @Summary List the caller's uploaded datesheets, newest first
// @Tags Datesheet
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /datesheet [get]
func (h *DatesheetHandler) List(c *gin.Context) {
	files, err := h.store.List(currentUserID(c))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list datesheets"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"files": files}, nil)
}

// Delete godoc
// @Summary Delete uploaded datesheets by stored name
// @Tags Datesheet
// @Accept json
// @Produce json
// @Param payload body deleteDatesheetsRequest true "Stored file names to remove"
// @Success 200 {object} response.Envelope
// @Router /datesheet [delete]
func (h *DatesheetHandler) Delete(c *gin.Context) {
	var req deleteDatesheetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "files must be a non-empty list of stored names"))
		return
	}
	deleted := h.store.Delete(currentUserID(c), req.Files)
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}
