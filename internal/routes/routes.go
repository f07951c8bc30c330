package routes

import (
	"net/http"

	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	JWTSecret   string
	Checkout    *payement.Handler
	Orders      *user.OrderHandler
	RateCounter middleware.Counter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Checkout
	co := api.Group("/checkout")
	limit := middleware.CheckoutRateLimit(d.RateCounter, middleware.CheckoutMaxRequests)
	co.POST("/create-session", middleware.AuthRequired(d.JWTSecret), limit, d.Checkout.CreateCheckoutSession)
	co.POST("/guest", limit, d.Checkout.CreateGuestCheckoutSession)
	co.GET("/status/:sessionId", d.Checkout.GetSessionStatus)
	co.GET("/verify/:sessionId", d.Checkout.VerifyPayment)

	// Webhooks (pas d'auth : la signature Stripe fait foi)
	api.POST("/webhooks/stripe", d.Checkout.StripeWebhook)

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired(d.JWTSecret))
	orders.GET("", d.Orders.GetMyOrders)
	orders.GET("/:id", d.Orders.GetOrderByID)
}
