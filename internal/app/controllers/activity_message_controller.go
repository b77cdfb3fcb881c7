package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/app/services"
	"github.com/meetapp/backend/internal/middleware"
)

// ActivityMessageController exposes read access to persisted chat messages.
// Writes happen over the websocket relay only.
type ActivityMessageController struct {
	chatService services.ChatService
	logger      zerolog.Logger
}

// NewActivityMessageController creates a new ActivityMessageController
func NewActivityMessageController(chatService services.ChatService, logger zerolog.Logger) *ActivityMessageController {
	return &ActivityMessageController{
		chatService: chatService,
		logger:      logger,
	}
}

// GetAll lists every persisted message
// @Summary List all messages
// @Tags activity-messages
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityMessageResponse}
// @Router /activity-messages [get]
func (c *ActivityMessageController) GetAll(ctx *gin.Context) {
	messages, err := c.chatService.GetAllMessages(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list messages")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}

// GetByID returns a single message
// @Summary Get message
// @Tags activity-messages
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ActivityMessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Router /activity-messages/{id} [get]
func (c *ActivityMessageController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	message, err := c.chatService.GetMessage(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message))
}

// GetByActivity returns an activity's message history in persisted order
// @Summary Get activity chat history
// @Tags activity-messages
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ActivityMessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Activity not found"
// @Router /activities/{id}/messages [get]
func (c *ActivityMessageController) GetByActivity(ctx *gin.Context) {
	activityID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	messages, err := c.chatService.GetActivityMessages(ctx.Request.Context(), activityID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(messages))
}
