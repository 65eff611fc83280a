package routes

import (
	"net/http"
	"time"

	"appointly/handlers"
	"appointly/metrics"
	"appointly/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm your booking assistant"})
	})
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// RegisterChatRoutes registers the customer-facing conversation endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/chat", hb.ChatHandler)
	r.GET("/available_slots/:date", hb.AvailableSlotsHandler)
}

// RegisterReviewerRoutes registers the endpoints used by the booking team.
func RegisterReviewerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reviewer := r.Group("")
	{
		reviewer.Use(middleware.ReviewerAuthMiddleware(hb.ReviewerSecret))
		reviewer.POST("/confirm_appointment", hb.ConfirmAppointmentHandler)
		reviewer.GET("/pending_confirmations", hb.PendingConfirmationsHandler)
		reviewer.GET("/decisions/:confirmation_id", hb.DecisionHistoryHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterMetricsRoute(r)
	RegisterChatRoutes(r, hb)
	RegisterReviewerRoutes(r, hb)
}
