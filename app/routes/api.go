// Package routes mounts the HTTP API. Every handler is constructed
// here from the injected database handle; nothing route-related holds
// global state.
package routes

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/dukaan/app/controllers"
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/rbac"
	"github.com/shashiranjanraj/dukaan/pkg/router"
	"github.com/shashiranjanraj/dukaan/pkg/ws"
)

// RegisterAPI wires repositories, services and controllers onto the
// router under /api.
func RegisterAPI(r *router.Router, db *mongo.Database, hub *ws.Hub) {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo)
	productSvc := services.NewProductService(productRepo)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, hubNotifier{hub: hub})
	reviewSvc := services.NewReviewService(reviewRepo, productRepo, productSvc)
	paymentSvc := services.NewPaymentService()

	authCtl := controllers.NewAuthController(authSvc)
	userCtl := controllers.NewUserController(userSvc)
	productCtl := controllers.NewProductController(productSvc)
	cartCtl := controllers.NewCartController(cartSvc)
	orderCtl := controllers.NewOrderController(orderSvc, hub)
	reviewCtl := controllers.NewReviewController(reviewSvc)
	paymentCtl := controllers.NewPaymentController(paymentSvc)

	api := r.Group("/api")
	admin := rbac.HasRole(models.RoleAdmin)

	// Auth.
	auth := api.Group("/auth")
	auth.Post("/signup", "auth.signup", authCtl.Register)
	auth.Post("/login", "auth.login", authCtl.Login)
	auth.Post("/logout", "auth.logout", authCtl.Logout)
	auth.Get("/me", "auth.me", authCtl.Me, middleware.Auth)

	// Catalogue. Reads are public, writes are admin-only.
	products := api.Group("/products")
	products.Get("/bulk", "products.list", productCtl.List)
	products.Get("/{id}", "products.show", productCtl.Show)
	products.Post("/create", "products.create", productCtl.Create, middleware.Auth, admin)
	products.Put("/update/{id}", "products.update", productCtl.Update, middleware.Auth, admin)
	products.Delete("/{id}", "products.delete", productCtl.Delete, middleware.Auth, admin)

	// Cart. Everything requires a logged-in user.
	cart := api.Group("/cart", middleware.Auth)
	cart.Get("/", "cart.show", cartCtl.Show)
	cart.Post("/", "cart.add", cartCtl.AddItems)
	cart.Put("/update", "cart.update", cartCtl.UpdateItems)
	cart.Delete("/delete/{productId}", "cart.remove", cartCtl.RemoveItem)
	cart.Delete("/clear", "cart.clear", cartCtl.Clear)

	// Orders.
	orders := api.Group("/orders", middleware.Auth)
	orders.Post("/", "orders.place", orderCtl.Place)
	orders.Get("/", "orders.mine", orderCtl.Mine)
	orders.Get("/all", "orders.all", orderCtl.All, admin)
	orders.Get("/user/{userId}", "orders.for_user", orderCtl.ForUser, admin)
	orders.Get("/stream", "orders.stream", orderCtl.Stream, admin)
	orders.Get("/{id}", "orders.show", orderCtl.Show)
	orders.Put("/{id}", "orders.status", orderCtl.UpdateStatus, admin)

	// Reviews.
	reviews := api.Group("/reviews")
	reviews.Get("/product/{productId}", "reviews.by_product", reviewCtl.ByProduct)
	reviews.Post("/", "reviews.create", reviewCtl.Create, middleware.Auth)
	reviews.Delete("/{id}", "reviews.delete", reviewCtl.Delete, middleware.Auth)

	// Payments. The webhook is authenticated by its HMAC signature, not
	// by a user session.
	payments := api.Group("/payments")
	payments.Post("/order", "payments.order", paymentCtl.CreateOrder, middleware.Auth)
	payments.Post("/webhook", "payments.webhook", paymentCtl.Webhook)

	// Users. Listing and deletion are admin-only, single profiles are
	// public (passwords never serialise), updates are self-only.
	users := api.Group("/users")
	users.Get("/all-users", "users.list", userCtl.List, middleware.Auth, admin)
	users.Get("/{id}", "users.show", userCtl.Show)
	users.Put("/{id}", "users.update", userCtl.Update, middleware.Auth)
	users.Delete("/{id}", "users.delete", userCtl.Delete, middleware.Auth, admin)
}
