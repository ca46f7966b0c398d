package routes

import (
	"net/http"
	"time"

	"github.com/keysncaps/keysncaps/app/controllers"
	appgraphql "github.com/keysncaps/keysncaps/app/graphql"
	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/graphql"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/metrics"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/rbac"
	"github.com/keysncaps/keysncaps/pkg/response"
	"github.com/keysncaps/keysncaps/pkg/router"
	"github.com/keysncaps/keysncaps/pkg/ws"
)

// Deps carries the wired services the route tree needs.
type Deps struct {
	Users    *repositories.UserRepository
	Orders   *repositories.OrderRepository
	Auth     *services.AuthService
	Products *services.ProductService
	Payments *services.PaymentService
	OrderSvc *services.OrderService
	Hub      *ws.Hub
}

// RegisterAPI mounts every HTTP endpoint on the router.
func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Auth)
	userController := controllers.NewUserController(d.Users)
	productController := controllers.NewProductController(d.Products)
	checkoutController := controllers.NewCheckoutController(d.Payments, d.OrderSvc)
	orderController := controllers.NewOrderController(d.OrderSvc, d.Orders)

	authed := middleware.Auth(d.Users.Exists)
	adminOnly := rbac.HasRole(models.RoleAdmin)
	loginLimit := middleware.RateLimit(10, time.Minute)

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// Auth.
	users := api.Group("/users")
	users.Post("/", "users.register", authController.Register)
	users.Post("/login", "users.login", authController.Login, loginLimit)
	users.Post("/refresh", "users.refresh", authController.Refresh)
	users.Post("/logout", "users.logout", authController.Logout, authed)
	users.Get("/profile", "users.profile", userController.Profile, authed)

	// Public catalog.
	api.Get("/products", "products.list", productController.List)
	api.Get("/products/{id}", "products.show", productController.Show)

	// GraphQL catalog view.
	if schema, err := appgraphql.NewCatalogSchema(d.Products); err != nil {
		logger.Error("routes: graphql schema", "error", err)
	} else {
		api.Post("/graphql", "graphql", graphql.Handler(schema))
	}

	// Checkout.
	api.Post("/create-payment-intent", "checkout.intent", checkoutController.CreatePaymentIntent)
	api.Post("/orders", "orders.create", checkoutController.CreateOrder, authed)
	api.Get("/orders", "orders.mine", orderController.Mine, authed)
	api.Get("/orders/{id}", "orders.show", orderController.Show, authed)

	// Admin.
	admin := api.Group("/admin", authed, adminOnly)
	admin.Get("/users", "admin.users", userController.List)
	admin.Post("/products", "admin.products.create", productController.Create)
	admin.Put("/products/{id}", "admin.products.update", productController.Update)
	admin.Patch("/products/{id}/stock", "admin.products.stock", productController.UpdateStock)
	admin.Post("/products/{id}/image", "admin.products.image", productController.UploadImage)
	admin.Delete("/products/{id}", "admin.products.delete", productController.Delete)
	admin.Get("/orders", "admin.orders", orderController.List)
	admin.Put("/orders/{id}", "admin.orders.status", orderController.UpdateStatus)

	// Order notifications for the admin dashboard. Fire-and-forget
	// broadcast, no delivery guarantee.
	r.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, d.Hub)
	})
}
