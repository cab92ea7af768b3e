package controllers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/middleware"
	"github.com/selcuk/alumnihub/internal/pkg/blobstore"
)

// StorageController handles blob storage operations
type StorageController struct {
	storage blobstore.Storage
}

// NewStorageController creates a new StorageController
func NewStorageController(storage blobstore.Storage) *StorageController {
	return &StorageController{
		storage: storage,
	}
}

// Upload stores a multipart file upload
// @Summary Upload a file
// @Tags storage
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Param path formData string true "Destination path"
// @Success 201 {object} dto.APIResponse "File stored"
// @Router /storage/upload [post]
func (c *StorageController) Upload(ctx *gin.Context) {
	path := ctx.PostForm("path")
	if path == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Destination path is required").
			WithField("path")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.storage.Upload(ctx, path, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      gin.H{"url": url},
		Timestamp: time.Now(),
	})
}

// UploadBytes stores base64-encoded content
// @Summary Upload raw bytes
// @Tags storage
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UploadBytesRequest true "Content to store"
// @Success 201 {object} dto.APIResponse "Bytes stored"
// @Router /storage/bytes [post]
func (c *StorageController) UploadBytes(ctx *gin.Context) {
	var req dto.UploadBytesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid upload data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Content must be base64 encoded").
			WithField("content")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	url, err := c.storage.UploadBytes(ctx, req.Path, data, req.ContentType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      gin.H{"url": url},
		Timestamp: time.Now(),
	})
}

// PublicURL resolves the public URL of a stored blob
// @Summary Resolve a blob URL
// @Tags storage
// @Produce json
// @Security BearerAuth
// @Param path query string true "Blob path"
// @Success 200 {object} dto.APIResponse "URL resolved"
// @Router /storage/url [get]
func (c *StorageController) PublicURL(ctx *gin.Context) {
	path := ctx.Query("path")
	if path == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Query parameter path is required").
			WithField("path")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      gin.H{"url": c.storage.PublicURL(path)},
		Timestamp: time.Now(),
	})
}

// Delete removes a stored blob
// @Summary Delete a blob
// @Tags storage
// @Produce json
// @Security BearerAuth
// @Param path query string true "Blob path"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Blob deleted"
// @Router /storage [delete]
func (c *StorageController) Delete(ctx *gin.Context) {
	path := ctx.Query("path")
	if path == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Query parameter path is required").
			WithField("path")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.storage.Delete(ctx, path); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Blob deleted"},
		Timestamp: time.Now(),
	})
}
