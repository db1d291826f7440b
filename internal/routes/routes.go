package routes

import (
	"github.com/gin-gonic/gin"

	"boutique_back_end/internal/handlers"
	"boutique_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	// Collaborateur paiement (SDK Stripe)
	r.POST("/create-payment-intent", handlers.CreatePaymentIntent)
	r.POST("/api/stripe/webhook", handlers.StripeWebhook)

	// Lecture d'une commande par id
	r.GET("/orders/:id", handlers.GetOrder)

	api := r.Group("/api", middleware.APIToken())
	{
		// Auth par session
		api.POST("/register", handlers.Register)
		api.POST("/login", middleware.LoginRateLimit(), handlers.Login)
		api.POST("/logout", handlers.Logout)
		api.GET("/check-auth", middleware.AuthRequired(), handlers.CheckAuth)

		// Catalogue public
		api.GET("/product", handlers.GetAllProducts)
		api.GET("/product/search", handlers.SearchProducts)
		api.GET("/product/:id", handlers.GetProduct)

		// Formulaire de contact
		api.POST("/contact", handlers.ContactForm)

		// Commandes
		api.POST("/create-order", handlers.CreateOrder)

		// Panier (propriétaire uniquement)
		cart := api.Group("/cart", middleware.AuthRequired())
		{
			cart.GET("/ws", handlers.CartWebSocket)
			cart.GET("/:userId", handlers.GetCart)
			cart.POST("/add", handlers.AddToCart)
			cart.PUT("/update/:id", handlers.UpdateCartItem)
			cart.DELETE("/item/:id", handlers.RemoveCartItem)
			cart.DELETE("/clear/:userId", handlers.ClearCart)
		}

		// Administration du catalogue et des commandes
		admin := api.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("/create-product", handlers.CreateProduct)
			admin.POST("/editProduct/:id", handlers.EditProduct)
			admin.DELETE("/delete-product/:id", handlers.DeleteProduct)
			admin.GET("/orders", handlers.GetOrders)
		}
	}
}
