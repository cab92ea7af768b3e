package dto

import (
	"time"

	"github.com/selcuk/alumnihub/internal/app/models"
)

// APIResponse is the standard success envelope for API endpoints
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// SyncResult is the structured outcome of a synchronization pass. Sync
// endpoints always return it, even on partial failure.
type SyncResult struct {
	SyncedCount int `json:"syncedCount" example:"42"`
	ErrorCount  int `json:"errorCount" example:"1"`
}

// SecondaryStats reports document-store totals alongside the most recently
// mirrored records.
type SecondaryStats struct {
	TotalCount int                      `json:"totalCount"`
	Recent     []map[string]interface{} `json:"recent"`
}

// GroupCount is one aggregation bucket in dashboard statistics.
type GroupCount struct {
	Key   string `json:"key" example:"2018"`
	Count int64  `json:"count" example:"12"`
}

// DashboardStats is the admin dashboard summary of the primary store.
type DashboardStats struct {
	TotalCount       int64            `json:"totalCount"`
	Recent           []*models.Alumni `json:"recent"`
	ByGraduationYear []GroupCount     `json:"byGraduationYear"`
	ByDepartment     []GroupCount     `json:"byDepartment"`
}

// HealthStatus reports the reachability of the service's dependencies.
type HealthStatus struct {
	Status   string `json:"status" example:"ok"`
	Postgres string `json:"postgres" example:"ok"`
	DocStore string `json:"docStore" example:"ok"`
	Storage  string `json:"storage" example:"ok"`
}
