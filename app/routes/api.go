// Package routes wires the REST surface: controllers, auth middleware, and
// the operational endpoints.
package routes

import (
	"net/http"

	"github.com/storefront/backend/app/controllers"
	"github.com/storefront/backend/pkg/metrics"
	"github.com/storefront/backend/pkg/middleware"
	"github.com/storefront/backend/pkg/response"
	"github.com/storefront/backend/pkg/router"
)

// Controllers bundles everything the route table mounts.
type Controllers struct {
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Review  *controllers.ReviewController
	Upload  *controllers.UploadController
}

// Register mounts every route on r. Bearer auth guards all non-public
// routes; admin routes additionally require the admin role.
func Register(r *router.Router, c Controllers) {
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Message(w, "ok")
	})
	r.HandleFunc("/metrics", metrics.Handler())

	auth := r.Group("/auth")
	auth.Post("/register", "auth.register", c.Auth.Register)
	auth.Post("/login", "auth.login", c.Auth.Login)
	auth.Post("/forgot-password", "auth.forgot", c.Auth.ForgotPassword)
	auth.Put("/reset-password/{token}", "auth.reset", c.Auth.ResetPassword)
	auth.Get("/profile", "auth.profile", c.Auth.Profile, middleware.Auth)
	auth.Put("/profile", "auth.profile.update", c.Auth.UpdateProfile, middleware.Auth)

	products := r.Group("/products")
	products.Get("/", "products.list", c.Product.List)
	products.Get("/{id}", "products.show", c.Product.Get)
	products.Post("/", "products.create", c.Product.Create, middleware.Auth, middleware.RequireAdmin)
	products.Put("/{id}", "products.update", c.Product.Update, middleware.Auth, middleware.RequireAdmin)
	products.Delete("/{id}", "products.delete", c.Product.Delete, middleware.Auth, middleware.RequireAdmin)
	products.Get("/{productId}/reviews", "products.reviews", c.Review.ListByProduct)
	products.Post("/{productId}/reviews", "products.reviews.create", c.Review.Create, middleware.Auth)

	reviews := r.Group("/reviews")
	reviews.Get("/my-reviews", "reviews.mine", c.Review.My, middleware.Auth)
	reviews.Get("/{id}", "reviews.show", c.Review.Get)
	reviews.Put("/{id}", "reviews.update", c.Review.Update, middleware.Auth)
	reviews.Delete("/{id}", "reviews.delete", c.Review.Delete, middleware.Auth)

	cart := r.Group("/cart", middleware.Auth)
	cart.Get("/", "cart.show", c.Cart.Get)
	cart.Post("/", "cart.add", c.Cart.Add)
	cart.Delete("/", "cart.clear", c.Cart.Clear)
	cart.Put("/{itemId}", "cart.update", c.Cart.UpdateItem)
	cart.Delete("/{itemId}", "cart.remove", c.Cart.RemoveItem)

	orders := r.Group("/orders", middleware.Auth)
	orders.Post("/", "orders.place", c.Order.Place)
	orders.Get("/", "orders.all", c.Order.All, middleware.RequireAdmin)
	orders.Get("/my-orders", "orders.mine", c.Order.My)
	orders.Get("/{id}", "orders.show", c.Order.Get)
	orders.Put("/{id}/pay", "orders.pay", c.Order.Pay)
	orders.Put("/{id}/status", "orders.status", c.Order.UpdateStatus, middleware.RequireAdmin)
	orders.Put("/{id}/cancel", "orders.cancel", c.Order.Cancel)

	upload := r.Group("/upload", middleware.Auth, middleware.RequireAdmin)
	upload.Post("/single", "upload.single", c.Upload.Single)
	upload.Post("/multiple", "upload.multiple", c.Upload.Multiple)
	upload.Delete("/*", "upload.delete", c.Upload.Delete)
}
