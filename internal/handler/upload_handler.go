package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/pkg/storage"
)

// Max photo upload size: 10MB
const maxUploadSize = 10 << 20

// UploadHandler handles profile photo uploads
type UploadHandler struct {
	storage *storage.MinIOStorage
}

func NewUploadHandler(storage *storage.MinIOStorage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// UploadPhoto godoc
// @Summary Upload a profile photo
// @Description Uploads one photo (jpg, png, gif, webp) and returns its public URL.
// @Description Add the URL to the profile via the profile endpoints.
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Photo to upload"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 413 {object} model.ErrorResponse
// @Router /upload/photo [post]
func (h *UploadHandler) UploadPhoto(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "Photo storage is not available"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		if err.Error() == "http: request body too large" {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "Photo too large (max 10MB)"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Photo is required", Message: err.Error()})
		return
	}
	defer file.Close()

	result, err := h.storage.UploadPhoto(c.Request.Context(), currentUserID(c), file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Failed to upload photo", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{
		Message: "Photo uploaded",
		Data: gin.H{
			"url":       result.URL,
			"file_name": result.FileName,
			"file_size": result.FileSize,
			"mime_type": result.MimeType,
		},
	})
}
