package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/models/dto"
	"github.com/selcuk/alumnihub/internal/identity"
	"github.com/selcuk/alumnihub/internal/middleware"
)

// IdentityController exposes identity-provider account operations
type IdentityController struct {
	provider identity.Provider
}

// NewIdentityController creates a new IdentityController
func NewIdentityController(provider identity.Provider) *IdentityController {
	return &IdentityController{
		provider: provider,
	}
}

// RegisterUser creates an account
// @Summary Register a user account
// @Tags identity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RegisterUserRequest true "Account information"
// @Success 201 {object} dto.APIResponse{data=identity.UserInfo} "Account created"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Router /identity/users [post]
func (c *IdentityController) RegisterUser(ctx *gin.Context) {
	var req dto.RegisterUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid account data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	info, err := c.provider.CreateUser(ctx, req.Username, req.Email, req.Password, req.DisplayName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      info,
		Timestamp: time.Now(),
	})
}

// VerifyToken verifies an access token
// @Summary Verify a token
// @Tags identity
// @Accept json
// @Produce json
// @Param request body dto.VerifyTokenRequest true "Token"
// @Success 200 {object} dto.APIResponse{data=identity.TokenInfo} "Token valid"
// @Failure 401 {object} dto.ErrorResponse "Token invalid or expired"
// @Router /identity/verify [post]
func (c *IdentityController) VerifyToken(ctx *gin.Context) {
	var req dto.VerifyTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	info, err := c.provider.VerifyToken(ctx, req.Token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      info,
		Timestamp: time.Now(),
	})
}

// GetUser retrieves an account
// @Summary Get a user account
// @Tags identity
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Account UID"
// @Success 200 {object} dto.APIResponse{data=identity.UserInfo} "Account retrieved"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /identity/users/{uid} [get]
func (c *IdentityController) GetUser(ctx *gin.Context) {
	info, err := c.provider.GetUser(ctx, ctx.Param("uid"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      info,
		Timestamp: time.Now(),
	})
}

// UpdateUser applies a partial account update
// @Summary Update a user account
// @Tags identity
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Account UID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=identity.UserInfo} "Account updated"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /identity/users/{uid} [patch]
func (c *IdentityController) UpdateUser(ctx *gin.Context) {
	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid account data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	info, err := c.provider.UpdateUser(ctx, ctx.Param("uid"), identity.UserUpdate{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Disabled:    req.Disabled,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      info,
		Timestamp: time.Now(),
	})
}

// DeleteUser removes an account
// @Summary Delete a user account
// @Tags identity
// @Produce json
// @Security BearerAuth
// @Param uid path string true "Account UID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Account deleted"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /identity/users/{uid} [delete]
func (c *IdentityController) DeleteUser(ctx *gin.Context) {
	if err := c.provider.DeleteUser(ctx, ctx.Param("uid")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Account deleted"},
		Timestamp: time.Now(),
	})
}
