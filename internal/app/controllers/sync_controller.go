package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/services"
	"github.com/selcuk/alumnihub/internal/docstore"
	"github.com/selcuk/alumnihub/internal/middleware"
)

// SyncController handles synchronization and document-store mirror operations
type SyncController struct {
	syncService  *services.SyncService
	sheetService *services.SheetService
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService *services.SyncService, sheetService *services.SheetService) *SyncController {
	return &SyncController{
		syncService:  syncService,
		sheetService: sheetService,
	}
}

// SyncToSecondary pushes the primary store into the mirror
// @Summary Sync primary store to mirror
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncResult} "Sync completed"
// @Failure 502 {object} dto.ErrorResponse "Batch rejected"
// @Router /sync/to-secondary [post]
func (c *SyncController) SyncToSecondary(ctx *gin.Context) {
	result, err := c.syncService.SyncToSecondary(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// SyncFromSecondary pulls the mirror into the primary store
// @Summary Sync mirror to primary store
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncResult} "Sync completed"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Router /sync/from-secondary [post]
func (c *SyncController) SyncFromSecondary(ctx *gin.Context) {
	result, err := c.syncService.SyncFromSecondary(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// ImportSheet imports the external spreadsheet into the primary store
// @Summary Import spreadsheet rows
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SyncResult} "Import completed"
// @Failure 503 {object} dto.ErrorResponse "No spreadsheet source configured"
// @Router /sync/sheet [post]
func (c *SyncController) ImportSheet(ctx *gin.Context) {
	result, err := c.sheetService.Import(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      result,
		Timestamp: time.Now(),
	})
}

// Search runs a prefix search against the mirror
// @Summary Search mirror documents
// @Description Anchored, case-sensitive prefix search on one field (default first_name)
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param q query string true "Prefix to match"
// @Param field query string false "Field to search" default(first_name)
// @Success 200 {object} dto.APIResponse "Matching documents"
// @Router /secondary/search [get]
func (c *SyncController) Search(ctx *gin.Context) {
	prefix := ctx.Query("q")
	if prefix == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Query parameter q is required").
			WithField("q")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	docs, err := c.syncService.Search(ctx, ctx.Query("field"), prefix)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      documentList(docs),
		Timestamp: time.Now(),
	})
}

// Stats reports mirror totals and recent documents
// @Summary Mirror statistics
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SecondaryStats} "Statistics retrieved"
// @Router /secondary/stats [get]
func (c *SyncController) Stats(ctx *gin.Context) {
	stats, err := c.syncService.SecondaryStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// ListDocuments lists every mirror document
// @Summary List mirror documents
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Documents retrieved"
// @Router /secondary/documents [get]
func (c *SyncController) ListDocuments(ctx *gin.Context) {
	docs, err := c.syncService.ListDocuments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      documentList(docs),
		Timestamp: time.Now(),
	})
}

// GetDocument retrieves one mirror document
// @Summary Get a mirror document
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} dto.APIResponse "Document retrieved"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /secondary/documents/{id} [get]
func (c *SyncController) GetDocument(ctx *gin.Context) {
	doc, err := c.syncService.GetDocument(ctx, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      documentBody(doc.ID, doc.Data),
		Timestamp: time.Now(),
	})
}

// AddDocument inserts a raw document into the mirror
// @Summary Add a mirror document
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]interface{} true "Document fields"
// @Success 201 {object} dto.APIResponse "Document created"
// @Router /secondary/documents [post]
func (c *SyncController) AddDocument(ctx *gin.Context) {
	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	id, err := c.syncService.AddDocument(ctx, payload)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      gin.H{"id": id},
		Timestamp: time.Now(),
	})
}

// UpdateDocument merge-updates a mirror document
// @Summary Update a mirror document
// @Tags sync
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param request body map[string]interface{} true "Fields to merge"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document updated"
// @Router /secondary/documents/{id} [put]
func (c *SyncController) UpdateDocument(ctx *gin.Context) {
	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.syncService.UpdateDocument(ctx, ctx.Param("id"), payload); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Document updated"},
		Timestamp: time.Now(),
	})
}

// DeleteDocument removes a mirror document
// @Summary Delete a mirror document
// @Tags sync
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document deleted"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /secondary/documents/{id} [delete]
func (c *SyncController) DeleteDocument(ctx *gin.Context) {
	if err := c.syncService.DeleteDocument(ctx, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Document deleted"},
		Timestamp: time.Now(),
	})
}

// documentBody renders a document with its id folded into the field map.
func documentBody(id string, data map[string]any) map[string]any {
	body := make(map[string]any, len(data)+1)
	body["id"] = id
	for k, v := range data {
		body[k] = v
	}
	return body
}

func documentList(docs []docstore.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentBody(doc.ID, doc.Data))
	}
	return out
}
