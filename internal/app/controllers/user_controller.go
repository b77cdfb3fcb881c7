package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/app/repositories"
	"github.com/meetapp/backend/internal/app/services"
	"github.com/meetapp/backend/internal/middleware"
)

// UserController handles user account operations
type UserController struct {
	userService     services.UserService
	activityService services.ActivityService
	logger          zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, activityService services.ActivityService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService:     userService,
		activityService: activityService,
		logger:          logger,
	}
}

// GetUser returns a single user by id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// GetBusinesses lists all business accounts
// @Summary List businesses
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.BusinessInfoResponse}
// @Router /users/businesses [get]
func (c *UserController) GetBusinesses(ctx *gin.Context) {
	businesses, err := c.userService.ListBusinesses(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list businesses")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(businesses))
}

// Search lists activity members matching the filters, one row per membership
// @Summary Search activity members
// @Description Filters by a case-insensitive name fragment and by accounts registered on or before a date. No filters returns every membership.
// @Tags users
// @Produce json
// @Param name query string false "Name fragment"
// @Param date query string false "Registered-before day in YYYY-MM-DD form"
// @Success 200 {object} dto.APIResponse{data=[]dto.UserSearchResponse}
// @Failure 400 {object} dto.ErrorResponse "Malformed date"
// @Router /users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	var name *string
	if raw := ctx.Query("name"); raw != "" {
		name = &raw
	}

	var registeredBefore *time.Time
	if raw := ctx.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Date must be in YYYY-MM-DD form").WithField("date")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		registeredBefore = &day
	}

	results, err := c.userService.SearchUsers(ctx.Request.Context(), name, registeredBefore)
	if err != nil {
		c.logger.Error().Err(err).Msg("Member search failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(results))
}

// GetMyActivities lists the activities the caller is a member of
// @Summary List caller's activities
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me/activities [get]
func (c *UserController) GetMyActivities(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	activities, err := c.activityService.ListActivities(ctx.Request.Context(), repositories.ActivityFilter{
		MemberID: &userID,
	})
	if err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to list member activities")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activities))
}

// UpdateMe updates the caller's profile
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UserUpdateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me [put]
func (c *UserController) UpdateMe(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UserUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// UpdateMyBusiness updates the caller's business profile
// @Summary Update own business profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BusinessUpdateRequest true "Business fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a business account"
// @Router /users/me/business [put]
func (c *UserController) UpdateMyBusiness(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BusinessUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.UpdateBusiness(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(user))
}

// DeleteMe deletes the caller's account and everything hanging off it
// @Summary Delete own account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /users/me [delete]
func (c *UserController) DeleteMe(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), userID); err != nil {
		c.logger.Error().Err(err).Str("userID", userID.String()).Msg("Failed to delete user")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", userID.String()).Msg("User account deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Account deleted"}))
}
