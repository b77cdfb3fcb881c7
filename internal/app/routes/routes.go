package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meetapp/backend/internal/app/controllers"
	"github.com/meetapp/backend/internal/app/models/dto"
	"github.com/meetapp/backend/internal/middleware"
	"github.com/meetapp/backend/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	activityController *controllers.ActivityController,
	messageController *controllers.ActivityMessageController,
	offerController *controllers.OfferController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- User and auth routes ---
	users := v1.Group("/users")
	{
		// Public account endpoints
		users.POST("/registration", authController.Register)
		users.POST("/token", authController.Token)
		users.POST("/token/refresh", authController.RefreshToken)
		users.POST("/logout", authController.Logout)
		users.GET("/businesses", userController.GetBusinesses)
		users.GET("/search", userController.Search)

		// Authenticated self-service endpoints. The static "me" segment
		// must be registered before the ":id" wildcard group below; gin
		// routes static segments with priority.
		usersProtected := users.Group("")
		usersProtected.Use(authMiddleware.JWTAuth())
		{
			usersProtected.GET("/me/activities", userController.GetMyActivities)
			usersProtected.PUT("/me", userController.UpdateMe)
			usersProtected.PUT("/me/business", userController.UpdateMyBusiness)
			usersProtected.DELETE("/me", userController.DeleteMe)
		}

		users.GET("/:id", userController.GetUser)
	}

	// --- Activity routes ---
	activities := v1.Group("/activities")
	{
		// Public read endpoints; creation is public too, the owner travels
		// in the request body
		activities.POST("", activityController.Create)
		activities.POST("/checkQrCode", activityController.CheckQrCode)
		activities.GET("", activityController.GetAll)
		activities.GET("/date/:date", activityController.GetByDate)
		activities.GET("/:id", activityController.GetByID)
		activities.GET("/:id/participants", activityController.GetParticipants)
		activities.GET("/:id/participants/count", activityController.GetParticipantCount)
		activities.GET("/:id/messages", messageController.GetByActivity)

		activitiesProtected := activities.Group("")
		activitiesProtected.Use(authMiddleware.JWTAuth())
		{
			activitiesProtected.PUT("/:id", activityController.Update)
			activitiesProtected.DELETE("/:id", activityController.Delete)

			// Membership management
			activitiesProtected.POST("/:id/join", activityController.Join)
			activitiesProtected.DELETE("/leave/:id", activityController.Leave)
			activitiesProtected.GET("/:id/participants/check", activityController.CheckParticipation)

			// Real-time chat upgrade
			activitiesProtected.GET("/:id/chat/ws", wsHandler.HandleConnection)
		}
	}

	// --- Activity message read routes ---
	messages := v1.Group("/activity-messages")
	{
		messages.GET("", messageController.GetAll)
		messages.GET("/:id", messageController.GetByID)
	}

	// --- Offer routes ---
	offers := v1.Group("/offers")
	{
		offers.GET("", offerController.GetAll)
		offers.GET("/:id", offerController.GetByID)

		offersProtected := offers.Group("")
		offersProtected.Use(authMiddleware.JWTAuth())
		{
			offersProtected.POST("", offerController.Create)
			offersProtected.PUT("/:id", offerController.Update)
			offersProtected.PATCH("/:id/paid", offerController.SetPaid)
			offersProtected.DELETE("/:id", offerController.Delete)
		}
	}

	// Prometheus scrape endpoint (public)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
