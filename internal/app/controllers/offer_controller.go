package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/app/services"
	"github.com/meetapp/backend/internal/middleware"
)

// OfferController handles business offer operations
type OfferController struct {
	offerService services.OfferService
	logger       zerolog.Logger
}

// NewOfferController creates a new OfferController
func NewOfferController(offerService services.OfferService, logger zerolog.Logger) *OfferController {
	return &OfferController{
		offerService: offerService,
		logger:       logger,
	}
}

// Create creates an offer owned by the calling business
// @Summary Create offer
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OfferCreateRequest true "Offer to create"
// @Success 201 {object} dto.APIResponse{data=dto.OfferResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a business account"
// @Router /offers [post]
func (c *OfferController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.OfferCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	offer, err := c.offerService.CreateOffer(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("businessID", userID.String()).Msg("Failed to create offer")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("offerID", offer.ID.String()).Str("businessID", userID.String()).Msg("Offer created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(offer))
}

// GetAll lists offers, optionally scoped to a business
// @Summary List offers
// @Tags offers
// @Produce json
// @Param businessId query string false "Filter by business"
// @Success 200 {object} dto.APIResponse{data=[]dto.OfferResponse}
// @Router /offers [get]
func (c *OfferController) GetAll(ctx *gin.Context) {
	var businessID *uuid.UUID
	if raw := ctx.Query("businessId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid business id").WithField("businessId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		businessID = &id
	}

	offers, err := c.offerService.ListOffers(ctx.Request.Context(), businessID)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list offers")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(offers))
}

// GetByID returns a single offer
// @Summary Get offer
// @Tags offers
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.APIResponse{data=dto.OfferResponse}
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{id} [get]
func (c *OfferController) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	offer, err := c.offerService.GetOffer(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(offer))
}

// Update updates an offer owned by the caller
// @Summary Update offer
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body dto.OfferUpdateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.OfferResponse}
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the offer"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{id} [put]
func (c *OfferController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.OfferUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	offer, err := c.offerService.UpdateOffer(ctx.Request.Context(), userID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(offer))
}

// SetPaid flips the paid flag, called once an external payment settles
// @Summary Mark offer paid
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the offer"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{id}/paid [patch]
func (c *OfferController) SetPaid(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.offerService.SetOfferPaid(ctx.Request.Context(), userID, id, true); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("offerID", id.String()).Msg("Offer marked paid")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Offer marked as paid"}))
}

// Delete removes an offer owned by the caller
// @Summary Delete offer
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the offer"
// @Failure 404 {object} dto.ErrorResponse "Offer not found"
// @Router /offers/{id} [delete]
func (c *OfferController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.offerService.DeleteOffer(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Offer deleted"}))
}
