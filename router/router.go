package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/controllers"
	"github.com/dapurkita/restaurant-manager/live"
	"github.com/dapurkita/restaurant-manager/middlewares"
	"github.com/dapurkita/restaurant-manager/services"
)

// SetupRouter wires every endpoint. Route groups:
//
//	/api/v1           public catalogue + auth
//	/api/v1 (session) customer surface: cart, checkout, reservations, reviews
//	/api/v1/admin     back office, staff or better
//	/ws               live updates over websocket
func SetupRouter(db *gorm.DB, store services.SessionStore, gateway *services.PaymentGateway) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.MetricsMiddleware())

	userController := controllers.NewUserController(db)
	cartController := controllers.NewCartController(db)
	orderController := controllers.NewOrderController(db)
	reservationController := controllers.NewReservationController(db)
	reviewController := controllers.NewReviewController(db)
	menuController := controllers.NewMenuController(db)
	categoryController := controllers.NewCategoryController(db)
	tableController := controllers.NewTableController(db)
	customerController := controllers.NewCustomerController(db)
	adminController := controllers.NewAdminController(db)
	paymentController := controllers.NewPaymentController(db, gateway)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// Public: catalogue browsing and account creation. Login and register
	// sit behind the strict limiter.
	public := api.Group("")
	{
		public.POST("/register", middlewares.NewStrictRateLimiter(), userController.Register)
		public.POST("/login", middlewares.NewStrictRateLimiter(), userController.Login)

		public.GET("/menu", menuController.GetMenu)
		public.GET("/menu/:menu_item_id", menuController.GetMenuItem)
		public.GET("/menu/:menu_item_id/reviews", reviewController.GetItemReviews)
		public.GET("/categories", categoryController.GetCategories)
		public.GET("/tables", tableController.GetTables)
		public.GET("/reservations/availability", reservationController.CheckAvailability)

		// Gateway notifications authenticate via payload signature.
		public.POST("/payments/callback", paymentController.Callback)
	}

	// Customer surface: JWT auth plus a session for the cart and the CSRF
	// token guarding state changes.
	customer := api.Group("")
	customer.Use(middlewares.AuthMiddleware())
	customer.Use(middlewares.SessionMiddleware(store))
	customer.Use(middlewares.CSRFMiddleware())
	{
		customer.POST("/logout", userController.Logout)
		customer.GET("/profile", userController.GetProfile)
		customer.PATCH("/profile", userController.UpdateProfile)

		customer.GET("/cart", cartController.GetCart)
		customer.POST("/cart/items", cartController.AddItem)
		customer.PATCH("/cart/items/:menu_item_id", cartController.UpdateItem)
		customer.DELETE("/cart/items/:menu_item_id", cartController.RemoveItem)
		customer.DELETE("/cart", cartController.ClearCart)

		customer.POST("/checkout", orderController.Checkout)
		customer.GET("/orders", orderController.GetMyOrders)
		customer.GET("/orders/:order_id", orderController.GetOrderByID)
		customer.POST("/orders/:order_id/cancel", orderController.CancelMyOrder)
		customer.POST("/orders/:order_id/pay", paymentController.PayOrder)
		customer.GET("/payments/:payment_id", paymentController.CheckStatus)

		customer.POST("/reservations", reservationController.CreateReservation)
		customer.GET("/reservations", reservationController.GetMyReservations)
		customer.POST("/reservations/:reservation_id/cancel", reservationController.CancelReservation)

		customer.POST("/reviews", reviewController.CreateReview)
		customer.GET("/reviews", reviewController.GetMyReviews)

		customer.GET("/loyalty", customerController.GetMyLoyalty)
		customer.POST("/loyalty/redeem", customerController.RedeemPoints)
	}

	// Back office: staff or better. Admin-only routes add RequireRole.
	admin := api.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	admin.Use(middlewares.RequireStaff())
	{
		admin.GET("/dashboard", adminController.GetDashboard)
		admin.GET("/reports/revenue", adminController.GetRevenueReport)
		admin.GET("/exports/customers", adminController.ExportCustomers)
		admin.GET("/exports/sales-report", adminController.ExportSalesReport)

		admin.GET("/orders", orderController.GetAllOrders)
		admin.GET("/orders/:order_id", orderController.GetOrderByID)
		admin.PATCH("/orders/:order_id/status", orderController.UpdateStatus)
		admin.POST("/orders/:order_id/mark-paid", orderController.MarkPaid)

		admin.GET("/reservations", reservationController.GetAllReservations)
		admin.POST("/reservations/walk-in", reservationController.CreateWalkIn)
		admin.PATCH("/reservations/:reservation_id/status", reservationController.UpdateReservationStatus)

		admin.POST("/menu", menuController.CreateMenuItem)
		admin.PATCH("/menu/:menu_item_id", menuController.UpdateMenuItem)
		admin.DELETE("/menu/:menu_item_id", menuController.DeleteMenuItem)
		admin.POST("/menu/:menu_item_id/toggle-availability", menuController.ToggleAvailability)
		admin.POST("/menu/:menu_item_id/toggle-featured", menuController.ToggleFeatured)

		admin.POST("/categories", categoryController.CreateCategory)
		admin.PATCH("/categories/:category_id", categoryController.UpdateCategory)
		admin.DELETE("/categories/:category_id", categoryController.DeleteCategory)

		admin.POST("/tables", tableController.CreateTable)
		admin.PATCH("/tables/:table_id", tableController.UpdateTable)
		admin.DELETE("/tables/:table_id", tableController.DeleteTable)

		admin.GET("/customers", customerController.GetCustomers)
		admin.GET("/customers/:customer_id", customerController.GetCustomerDetail)

		admin.POST("/reviews/:review_id/featured", reviewController.SetFeatured)
		admin.DELETE("/reviews/:review_id", reviewController.DeleteReview)

		admin.GET("/settings", adminController.GetSettings)

		adminOnly := admin.Group("")
		adminOnly.Use(middlewares.RequireRole("admin"))
		{
			adminOnly.POST("/users", userController.CreateStaffUser)
			adminOnly.GET("/users", userController.GetAllUsers)
			adminOnly.PUT("/settings", adminController.UpdateSetting)
			adminOnly.POST("/customers/:customer_id/points", customerController.AdjustPoints)
			adminOnly.POST("/customers/:customer_id/active", customerController.SetActive)
		}
	}

	// Live updates for the back office. Browsers cannot set headers on
	// websocket upgrades, so the token rides the query string.
	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	ws.Use(middlewares.RequireStaff())
	{
		ws.GET("", live.Handler)
	}

	return r
}
