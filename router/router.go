package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/config"
	"github.com/imprimerie/print-shop-app/controllers"
	"github.com/imprimerie/print-shop-app/events"
	"github.com/imprimerie/print-shop-app/middlewares"
	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/services"
)

func SetupRouter(db *gorm.DB, cfg config.Config, hub *events.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	// Global rate limiter (50 requests per second per IP). Middleware must be
	// attached before routes are registered to apply to them.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Uploaded artwork is served statically; file names are uuids so the
	// directory cannot be enumerated.
	r.Static("/uploads", cfg.UploadDir)

	// Services
	pricing := services.NewPricingEngine()
	catalogSvc := services.NewCatalogService(db, hub)
	notificationSvc := services.NewNotificationService(db, hub)
	orderSvc := services.NewOrderService(db, catalogSvc, pricing, notificationSvc, hub)
	orderSvc.AllowStatusOverride = cfg.AllowStatusOverride
	chatSvc := services.NewChatService(db, hub)
	dashboardSvc := services.NewDashboardService(db)

	// Controllers
	userCtrl := controllers.NewUserController(db)
	serviceCtrl := controllers.NewServiceController(catalogSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	notificationCtrl := controllers.NewNotificationController(notificationSvc)
	chatCtrl := controllers.NewChatController(chatSvc)
	fileCtrl := controllers.NewFileController(cfg.UploadDir, cfg.PublicBaseURL)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc)
	wsCtrl := controllers.NewWSController(hub)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// The public catalog needs no account.
	r.GET("/services", serviceCtrl.GetAllServices)
	r.GET("/services/:service_id", serviceCtrl.GetServiceByID)

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)
		auth.PATCH("/profile", userCtrl.UpdateProfile)
		auth.POST("/profile/password", userCtrl.ChangePassword)

		// ORDERS (client side)
		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetMyOrders)
		auth.GET("/orders/stats", orderCtrl.GetOrderStats)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
		auth.POST("/orders/:order_id/items/:item_index/files", orderCtrl.AddFilesToItem)

		// FILES
		auth.POST("/files", fileCtrl.UploadFiles)

		// NOTIFICATIONS
		auth.GET("/notifications", notificationCtrl.GetMyNotifications)
		auth.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
		auth.PATCH("/notifications/read-all", notificationCtrl.MarkAllAsRead)
		auth.PATCH("/notifications/:notification_id/read", notificationCtrl.MarkAsRead)
		auth.DELETE("/notifications/:notification_id", notificationCtrl.DeleteNotification)

		// CHAT (client side)
		auth.GET("/chat/conversation", chatCtrl.OpenMyConversation)
		auth.GET("/chat/conversations/:conversation_id/messages", chatCtrl.GetMessages)
		auth.POST("/chat/conversations/:conversation_id/messages", chatCtrl.SendMessage)
		auth.PATCH("/chat/conversations/:conversation_id/read", chatCtrl.MarkConversationRead)
		auth.DELETE("/chat/messages/:message_id", chatCtrl.DeleteMessage)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		// CATALOG
		admin.POST("/services", serviceCtrl.CreateService)
		admin.PATCH("/services/:service_id", serviceCtrl.UpdateService)
		admin.POST("/services/:service_id/toggle", serviceCtrl.ToggleService)
		admin.DELETE("/services/:service_id", serviceCtrl.DeleteService)

		// ORDERS
		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/stats", orderCtrl.GetOrderStats)
		admin.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
		admin.PATCH("/orders/:order_id", orderCtrl.UpdateOrderMeta)
		admin.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		// CHAT inbox
		admin.GET("/chat/conversations", chatCtrl.GetAllConversations)

		// MAINTENANCE
		admin.DELETE("/notifications/old", notificationCtrl.PruneOld)

		// DASHBOARD
		admin.GET("/dashboard/stats", dashboardCtrl.GetStats)
		admin.GET("/dashboard/monthly", dashboardCtrl.GetMonthlyStats)
		admin.GET("/dashboard/top-services", dashboardCtrl.GetTopServices)

		// FILES
		admin.DELETE("/files/:file_name", fileCtrl.DeleteFile)
	}

	// USERS (admin only)
	users := r.Group("/admin/users")
	users.Use(middlewares.AuthMiddleware())
	users.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		users.GET("", userCtrl.GetAllUsers)
		users.PATCH("/:user_id/active", userCtrl.SetUserActive)
	}

	// WebSocket endpoint with its own auth (token in query)
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", wsCtrl.Serve)
	}

	return r
}
