package v1

import (
	"net/http"

	"github.com/shopspring/decimal"

	"storehub-backend/internal/domain"
	"storehub-backend/internal/usecase"
	"storehub-backend/pkg/utils"
)

// CartSessionHeader carries the anonymous buyer session that scopes carts and favorites.
const CartSessionHeader = "X-Cart-Session"

type CartHandler struct {
	carts     *usecase.CartUsecase
	favorites *usecase.FavoritesUsecase
}

func NewCartHandler(carts *usecase.CartUsecase, favorites *usecase.FavoritesUsecase) *CartHandler {
	return &CartHandler{carts: carts, favorites: favorites}
}

func cartRef(r *http.Request) usecase.CartRef {
	return usecase.CartRef{
		Session: r.Header.Get(CartSessionHeader),
		Kind:    domain.Channel(r.PathValue("kind")),
		StoreID: r.PathValue("storeId"),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Get(r.Context(), cartRef(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type addToCartReq struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
	Quantity  int             `json:"quantity"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if !decodeBody(w, r, &req) {
		return
	}
	line := domain.CartLine{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Unit:      req.Unit,
	}
	view, err := h.carts.AddItem(r.Context(), cartRef(r), line, req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type updateCartReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartReq
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.carts.UpdateQuantity(r.Context(), cartRef(r), r.PathValue("productId"), req.Quantity)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Remove(r.Context(), cartRef(r), r.PathValue("productId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.Clear(r.Context(), cartRef(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// --- Favorites ---

func (h *CartHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.List(r.Context(), r.Header.Get(CartSessionHeader), r.PathValue("storeId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"productIds": ids})
}

func (h *CartHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.Add(r.Context(), r.Header.Get(CartSessionHeader), r.PathValue("storeId"), r.PathValue("productId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"productIds": ids})
}

func (h *CartHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.Remove(r.Context(), r.Header.Get(CartSessionHeader), r.PathValue("storeId"), r.PathValue("productId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"productIds": ids})
}
