package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/app/repositories"
	"github.com/meetapp/backend/internal/app/services"
	"github.com/meetapp/backend/internal/middleware"
)

// ActivityController handles activity and membership operations
type ActivityController struct {
	activityService   services.ActivityService
	membershipService services.MembershipService
	logger            zerolog.Logger
}

// NewActivityController creates a new ActivityController
func NewActivityController(activityService services.ActivityService, membershipService services.MembershipService, logger zerolog.Logger) *ActivityController {
	return &ActivityController{
		activityService:   activityService,
		membershipService: membershipService,
		logger:            logger,
	}
}

// Create creates an activity, enrolling the owner and any invitees
// @Summary Create activity
// @Description Creates an activity. The owner is enrolled as creator, invitees as members; malformed or unknown invitee ids are skipped.
// @Tags activities
// @Accept json
// @Produce json
// @Param request body dto.ActivityCreateRequest true "Activity to create"
// @Success 201 {object} dto.APIResponse{data=dto.ActivityResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Owner does not exist"
// @Router /activities [post]
func (c *ActivityController) Create(ctx *gin.Context) {
	var req dto.ActivityCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid activity create payload")
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	activity, err := c.activityService.CreateActivity(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("ownerID", req.OwnerID.String()).Msg("Failed to create activity")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("activityID", activity.ID.String()).
		Str("ownerID", req.OwnerID.String()).
		Int("participants", activity.ParticipantCount).
		Msg("Activity created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(activity))
}

// GetAll lists activities with optional owner filtering
// @Summary List activities
// @Tags activities
// @Produce json
// @Param ownerId query string false "Filter by owner"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityResponse}
// @Router /activities [get]
func (c *ActivityController) GetAll(ctx *gin.Context) {
	var filter repositories.ActivityFilter
	if raw := ctx.Query("ownerId"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid owner id").WithField("ownerId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.OwnerID = &ownerID
	}

	activities, err := c.activityService.ListActivities(ctx.Request.Context(), filter)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list activities")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activities))
}

// GetByID returns a single activity
// @Summary Get activity
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityResponse}
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id} [get]
func (c *ActivityController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	activity, err := c.activityService.GetActivity(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity))
}

// GetByDate lists activities falling on a given UTC day, joined with
// their offer's business name
// @Summary List activities by date
// @Tags activities
// @Produce json
// @Param date path string true "Day in YYYY-MM-DD form"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityByDateResponse}
// @Failure 400 {object} dto.ErrorResponse "Malformed date"
// @Router /activities/date/{date} [get]
func (c *ActivityController) GetByDate(ctx *gin.Context) {
	day, err := time.Parse("2006-01-02", ctx.Param("date"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Date must be in YYYY-MM-DD form").WithField("date")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	activities, err := c.activityService.GetActivitiesByDate(ctx.Request.Context(), day)
	if err != nil {
		c.logger.Error().Err(err).Str("date", ctx.Param("date")).Msg("Failed to list activities by date")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activities))
}

// Update updates an activity owned by the caller
// @Summary Update activity
// @Tags activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param request body dto.ActivityUpdateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityResponse}
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the activity"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id} [put]
func (c *ActivityController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ActivityUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	activity, err := c.activityService.UpdateActivity(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(activity))
}

// Delete removes an activity owned by the caller
// @Summary Delete activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the activity"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id} [delete]
func (c *ActivityController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.activityService.DeleteActivity(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("activityID", id.String()).Str("userID", userID.String()).Msg("Activity deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Activity deleted"}))
}

// Join enrolls the caller in an activity
// @Summary Join activity
// @Description Enrolls the caller as a member. Joining twice is a no-op reported as joined=false. A full activity rejects the join.
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.JoinActivityResponse}
// @Failure 400 {object} dto.ErrorResponse "Activity is full."
// @Failure 401 {object} dto.ErrorResponse "Caller does not exist"
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/join [post]
func (c *ActivityController) Join(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	activityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.membershipService.JoinActivity(ctx.Request.Context(), activityID, userID)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("activityID", activityID.String()).
			Str("userID", userID.String()).
			Msg("Join rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("activityID", activityID.String()).
		Str("userID", userID.String()).
		Bool("joined", result.Joined).
		Msg("Join processed")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// Leave removes the caller's membership
// @Summary Leave activity
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Caller is not a member, or activity or user missing"
// @Router /activities/leave/{id} [delete]
func (c *ActivityController) Leave(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		// The leave contract reports every failure mode as a 400
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "User or activity not found")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.membershipService.LeaveActivity(ctx.Request.Context(), activityID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("activityID", activityID.String()).Str("userID", userID.String()).Msg("Left activity")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Left activity"}))
}

// CheckQrCode validates a scanned activity QR code for a business
// @Summary Validate QR code
// @Description Valid when the activity exists, carries an offer owned by the given business and the offer has not expired.
// @Tags activities
// @Accept json
// @Produce json
// @Param request body dto.QrCodeCheckRequest true "Scanned activity and scanning business"
// @Success 200 {object} dto.APIResponse{data=dto.QrCodeCheckResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Activity missing, offer missing, wrong business or expired offer"
// @Router /activities/checkQrCode [post]
func (c *ActivityController) CheckQrCode(ctx *gin.Context) {
	var req dto.QrCodeCheckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.activityService.CheckQrCode(ctx.Request.Context(), req.ActivityID, req.BusinessID); err != nil {
		c.logger.Warn().Err(err).
			Str("activityID", req.ActivityID.String()).
			Str("businessID", req.BusinessID.String()).
			Msg("QR code rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.QrCodeCheckResponse{Valid: true}))
}

// GetParticipantCount returns the number of members of an activity
// @Summary Count participants
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=int}
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/participants/count [get]
func (c *ActivityController) GetParticipantCount(ctx *gin.Context) {
	activityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	count, err := c.membershipService.CountMembers(ctx.Request.Context(), activityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(count))
}

// CheckParticipation reports whether the caller is a member of the activity
// @Summary Check own participation
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=bool}
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/participants/check [get]
func (c *ActivityController) CheckParticipation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	activityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	isMember, err := c.membershipService.IsMember(ctx.Request.Context(), activityID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(isMember))
}

// GetParticipants lists the members of an activity
// @Summary List participants
// @Tags activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityMemberResponse}
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/participants [get]
func (c *ActivityController) GetParticipants(ctx *gin.Context) {
	activityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.membershipService.ListMembers(ctx.Request.Context(), activityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(members))
}
