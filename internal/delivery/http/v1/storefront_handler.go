package v1

import (
	"net/http"

	"storehub-backend/internal/domain"
	"storehub-backend/internal/usecase"
	"storehub-backend/pkg/utils"
)

type StorefrontHandler struct {
	resolver   *usecase.ResolverUsecase
	storefront *usecase.StorefrontUsecase
}

func NewStorefrontHandler(resolver *usecase.ResolverUsecase, storefront *usecase.StorefrontUsecase) *StorefrontHandler {
	return &StorefrontHandler{resolver: resolver, storefront: storefront}
}

type resolveResponse struct {
	*usecase.Resolution
	Subdomain string `json:"subdomain,omitempty"`
}

// requestHost is the host the buyer typed: ?host= first, then the proxy header, then Host.
func requestHost(r *http.Request) string {
	if h := r.URL.Query().Get("host"); h != "" {
		return h
	}
	if h := r.Header.Get("X-Forwarded-Host"); h != "" {
		return h
	}
	return r.Host
}

// Resolve answers which store and channel a host belongs to.
func (h *StorefrontHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.Resolve(r.Context(), requestHost(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := resolveResponse{Resolution: res}
	if res.Kind == usecase.ResolutionPlatform {
		resp.Subdomain = h.resolver.PlatformSubdomain(res.Host)
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// Current assembles the storefront of the requesting host. Platform hosts route by
// subdomain and take the channel from ?channel= (retail by default).
func (h *StorefrontHandler) Current(w http.ResponseWriter, r *http.Request) {
	res, err := h.resolver.Resolve(r.Context(), requestHost(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if res.Kind == usecase.ResolutionTenant {
		sf, err := h.storefront.LoadByStoreID(r.Context(), res.Store.ID, res.Channel)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, sf)
		return
	}

	subdomain := h.resolver.PlatformSubdomain(res.Host)
	if subdomain == "" {
		utils.WriteError(w, http.StatusNotFound, "No store for this host")
		return
	}
	ch := domain.ChannelRetail
	if raw := r.URL.Query().Get("channel"); raw != "" {
		if ch, err = domain.ParseChannel(raw); err != nil {
			writeDomainError(w, r, err)
			return
		}
	}
	sf, err := h.storefront.Load(r.Context(), subdomain, ch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sf)
}

func (h *StorefrontHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	ch, err := domain.ParseChannel(r.PathValue("channel"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	sf, err := h.storefront.Load(r.Context(), r.PathValue("subdomain"), ch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sf)
}

// ListProducts returns the channel's products, narrowed to a category subtree by ?category=.
func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ch, err := domain.ParseChannel(r.PathValue("channel"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	products, err := h.storefront.ProductsInCategory(r.Context(), r.PathValue("subdomain"), ch, r.URL.Query().Get("category"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    len(products),
	})
}
