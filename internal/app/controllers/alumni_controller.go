package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/app/normalize"
	"github.com/selcuk/alumnihub/internal/app/services"
	"github.com/selcuk/alumnihub/internal/middleware"
)

// AlumniController handles alumni record operations
type AlumniController struct {
	alumniService *services.AlumniService
}

// NewAlumniController creates a new AlumniController
func NewAlumniController(alumniService *services.AlumniService) *AlumniController {
	return &AlumniController{
		alumniService: alumniService,
	}
}

// Register handles an admin-form submission (snake_case keys, YYYY-MM-DD dates)
// @Summary Register an alumni record
// @Description Creates an alumni record from an admin form payload
// @Tags alumni
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]interface{} true "Alumni fields"
// @Success 201 {object} dto.APIResponse{data=models.Alumni} "Record created"
// @Failure 400 {object} dto.ErrorResponse "Invalid record data"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /alumni [post]
func (c *AlumniController) Register(ctx *gin.Context) {
	c.register(ctx, normalize.ConventionForm)
}

// SubmitFeed handles a legacy feed submission (snake_case keys, MM/DD/YYYY dates)
// @Summary Submit an alumni record in the legacy feed shape
// @Tags alumni
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Alumni fields"
// @Success 201 {object} dto.APIResponse{data=models.Alumni} "Record created"
// @Failure 400 {object} dto.ErrorResponse "Invalid record data"
// @Router /alumni/feed [post]
func (c *AlumniController) SubmitFeed(ctx *gin.Context) {
	c.register(ctx, normalize.ConventionFeed)
}

// SubmitPortal handles a public portal submission (camelCase keys, combined fullName)
// @Summary Submit an alumni record from the public portal
// @Tags alumni
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Alumni fields"
// @Success 201 {object} dto.APIResponse{data=models.Alumni} "Record created"
// @Failure 400 {object} dto.ErrorResponse "Invalid record data"
// @Router /portal/alumni [post]
func (c *AlumniController) SubmitPortal(ctx *gin.Context) {
	c.register(ctx, normalize.ConventionPortal)
}

func (c *AlumniController) register(ctx *gin.Context, conv normalize.Convention) {
	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid alumni data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.alumniService.Register(ctx, payload, conv)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// GetAll retrieves all alumni records
// @Summary List alumni records
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Alumni} "Records retrieved"
// @Router /alumni [get]
func (c *AlumniController) GetAll(ctx *gin.Context) {
	records, err := c.alumniService.GetAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      records,
		Timestamp: time.Now(),
	})
}

// GetByID retrieves one alumni record
// @Summary Get an alumni record by ID
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=models.Alumni} "Record retrieved"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /alumni/{id} [get]
func (c *AlumniController) GetByID(ctx *gin.Context) {
	id, ok := recordID(ctx)
	if !ok {
		return
	}

	record, err := c.alumniService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// GetByDepartment retrieves the alumni records of one department
// @Summary List alumni records by department
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param department path string true "Department name"
// @Success 200 {object} dto.APIResponse{data=[]models.Alumni} "Records retrieved"
// @Router /alumni/department/{department} [get]
func (c *AlumniController) GetByDepartment(ctx *gin.Context) {
	records, err := c.alumniService.GetByDepartment(ctx, ctx.Param("department"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      records,
		Timestamp: time.Now(),
	})
}

// Update overwrites an alumni record
// @Summary Update an alumni record
// @Tags alumni
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body map[string]interface{} true "Alumni fields"
// @Success 200 {object} dto.APIResponse{data=models.Alumni} "Record updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid record data"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /alumni/{id} [put]
func (c *AlumniController) Update(ctx *gin.Context) {
	id, ok := recordID(ctx)
	if !ok {
		return
	}

	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid alumni data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.alumniService.Update(ctx, id, payload, normalize.ConventionForm)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      record,
		Timestamp: time.Now(),
	})
}

// Delete removes an alumni record
// @Summary Delete an alumni record
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Record deleted"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /alumni/{id} [delete]
func (c *AlumniController) Delete(ctx *gin.Context) {
	id, ok := recordID(ctx)
	if !ok {
		return
	}

	if err := c.alumniService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Alumni record deleted"},
		Timestamp: time.Now(),
	})
}

// Dashboard returns the admin dashboard statistics
// @Summary Dashboard statistics
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Statistics retrieved"
// @Router /alumni/stats [get]
func (c *AlumniController) Dashboard(ctx *gin.Context) {
	stats, err := c.alumniService.DashboardStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      stats,
		Timestamp: time.Now(),
	})
}

// recordID parses the :id path parameter, responding with 400 on failure.
func recordID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid record ID").
			WithDetails("Record ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
