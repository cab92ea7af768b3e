package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/db"
	"github.com/selcuk/alumnihub/internal/docstore"
	"github.com/selcuk/alumnihub/internal/pkg/blobstore"
)

const healthCheckTimeout = 3 * time.Second

// HealthController reports dependency reachability
type HealthController struct {
	postgres *db.PostgresDB
	store    docstore.Store
	storage  *blobstore.LocalStorage
}

// NewHealthController creates a new HealthController
func NewHealthController(postgres *db.PostgresDB, store docstore.Store, storage *blobstore.LocalStorage) *HealthController {
	return &HealthController{
		postgres: postgres,
		store:    store,
		storage:  storage,
	}
}

// Health reports the service's dependency status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthStatus} "All dependencies reachable"
// @Failure 503 {object} dto.APIResponse{data=dto.HealthStatus} "A dependency is down"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := dto.HealthStatus{Status: "ok", Postgres: "ok", DocStore: "ok", Storage: "ok"}
	httpStatus := http.StatusOK

	if err := c.postgres.Pool.Ping(checkCtx); err != nil {
		status.Postgres = "unreachable"
		status.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	if err := c.store.Ping(checkCtx); err != nil {
		status.DocStore = "unreachable"
		status.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	if err := c.storage.Ping(checkCtx); err != nil {
		status.Storage = "unreachable"
		status.Status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	ctx.JSON(httpStatus, dto.APIResponse{
		Data:      status,
		Timestamp: time.Now(),
	})
}
