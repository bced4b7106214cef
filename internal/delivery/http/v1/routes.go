package v1

import (
	"net/http"

	"storehub-backend/internal/delivery/http/middleware"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Storefront *StorefrontHandler
	Cart       *CartHandler
	Order      *OrderHandler
	Seller     *SellerHandler
	Health     *HealthHandler
}

// Register mounts the public storefront API, the seller API and the health checks on mux.
func (hs Handlers) Register(mux *http.ServeMux) {
	// Storefront (Public)
	mux.HandleFunc("GET /api/v1/resolve", hs.Storefront.Resolve)
	mux.HandleFunc("GET /api/v1/storefront", hs.Storefront.Current)
	mux.HandleFunc("GET /api/v1/stores/{subdomain}/{channel}", hs.Storefront.GetStorefront)
	mux.HandleFunc("GET /api/v1/stores/{subdomain}/{channel}/products", hs.Storefront.ListProducts)

	// Carts and favorites, scoped by X-Cart-Session
	mux.HandleFunc("GET /api/v1/carts/{kind}/{storeId}", hs.Cart.GetCart)
	mux.HandleFunc("POST /api/v1/carts/{kind}/{storeId}/items", hs.Cart.AddToCart)
	mux.HandleFunc("PATCH /api/v1/carts/{kind}/{storeId}/items/{productId}", hs.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/carts/{kind}/{storeId}/items/{productId}", hs.Cart.RemoveItem)
	mux.HandleFunc("DELETE /api/v1/carts/{kind}/{storeId}", hs.Cart.ClearCart)

	mux.HandleFunc("GET /api/v1/favorites/{storeId}", hs.Cart.ListFavorites)
	mux.HandleFunc("POST /api/v1/favorites/{storeId}/{productId}", hs.Cart.AddFavorite)
	mux.HandleFunc("DELETE /api/v1/favorites/{storeId}/{productId}", hs.Cart.RemoveFavorite)

	// Orders (Public, guest checkout allowed)
	mux.Handle("POST /api/v1/orders/{channel}", middleware.OptionalAuthMiddleware(http.HandlerFunc(hs.Order.PlaceOrder)))

	// Seller (Protected)
	seller := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	const store = "/api/v1/seller/stores/{storeId}"

	mux.Handle("GET "+store+"/categories", seller(hs.Seller.ListCategories))
	mux.Handle("POST "+store+"/categories", seller(hs.Seller.CreateCategory))
	mux.Handle("PUT "+store+"/categories/{id}", seller(hs.Seller.UpdateCategory))
	mux.Handle("DELETE "+store+"/categories/{id}", seller(hs.Seller.DeleteCategory))
	mux.Handle("PUT "+store+"/catalogs/{catalogId}/categories/{categoryId}", seller(hs.Seller.SetCatalogOverride))

	mux.Handle("GET "+store+"/trash", seller(hs.Seller.ListTrash))
	mux.Handle("DELETE "+store+"/trash", seller(hs.Seller.EmptyTrash))
	mux.Handle("POST "+store+"/products/{productId}/trash", seller(hs.Seller.MoveToTrash))
	mux.Handle("POST "+store+"/products/{productId}/restore", seller(hs.Seller.RestoreProduct))
	mux.Handle("DELETE "+store+"/products/{productId}", seller(hs.Seller.PurgeProduct))

	mux.Handle("GET "+store+"/orders", seller(hs.Seller.ListOrders))
	mux.Handle("GET "+store+"/orders/{id}", seller(hs.Seller.GetOrder))
	mux.Handle("PATCH "+store+"/orders/{id}/status", seller(hs.Seller.UpdateOrderStatus))

	mux.Handle("POST "+store+"/products/{productId}/ai-tags", seller(hs.Seller.SuggestTags))

	// Health Check
	mux.HandleFunc("GET /api/v1/health", hs.Health.Health)
	mux.HandleFunc("GET /health", hs.Health.Health) // Root health check for load balancers
}
