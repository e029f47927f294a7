package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/invite-server/controllers"
	"github.com/vnkhanh/invite-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.InviteContext(), controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLoginHandler)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		// Admin invite management
		invites := api.Group("/invites")
		invites.Use(middleware.AuthJWT(), middleware.RequireAdmin())
		{
			invites.GET("", controllers.ListInvites)
			invites.POST("", controllers.CreateInvite)
			invites.DELETE("/:token", controllers.DeleteInvite)
			invites.POST("/export", controllers.CreateExport)
		}
		api.GET("/exports/:job_id", middleware.AuthJWT(), middleware.RequireAdmin(), controllers.GetExport)

		// External trigger surface: provisioning/billing systems holding the
		// shared secret.
		external := api.Group("/external")
		external.Use(middleware.RateLimitExternalAPI(), middleware.RequireSharedSecret())
		{
			external.POST("/invites", controllers.CreateExternalInvite)
			external.POST("/renewals", controllers.RenewalNotification)
		}
	}
}
