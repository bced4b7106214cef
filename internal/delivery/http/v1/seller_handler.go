package v1

import (
	"context"
	"net/http"

	"storehub-backend/internal/domain"
	"storehub-backend/internal/usecase"
	"storehub-backend/pkg/utils"
)

// SellerHandler serves the store owner's back office. Every route sits behind AuthMiddleware.
type SellerHandler struct {
	categories *usecase.SellerCategoryUsecase
	trash      *usecase.TrashUsecase
	orders     *usecase.SellerOrderUsecase
	ai         *usecase.AIUsecase
}

func NewSellerHandler(categories *usecase.SellerCategoryUsecase, trash *usecase.TrashUsecase, orders *usecase.SellerOrderUsecase, ai *usecase.AIUsecase) *SellerHandler {
	return &SellerHandler{categories: categories, trash: trash, orders: orders, ai: ai}
}

// --- Categories ---

func (h *SellerHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	categories, err := h.categories.ListCategories(r.Context(), userID, r.PathValue("storeId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, categories)
}

func (h *SellerHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req usecase.CategoryInput
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.categories.CreateCategory(r.Context(), userID, r.PathValue("storeId"), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

func (h *SellerHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req usecase.CategoryInput
	if !decodeBody(w, r, &req) {
		return
	}
	c, err := h.categories.UpdateCategory(r.Context(), userID, r.PathValue("storeId"), r.PathValue("id"), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *SellerHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	if err := h.categories.DeleteCategory(r.Context(), userID, r.PathValue("storeId"), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellerHandler) SetCatalogOverride(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req usecase.CatalogCategoryInput
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := h.categories.SetCatalogOverride(r.Context(), userID, r.PathValue("storeId"), r.PathValue("catalogId"), r.PathValue("categoryId"), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

// --- Trash ---

func (h *SellerHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	products, err := h.trash.ListTrashed(r.Context(), userID, r.PathValue("storeId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *SellerHandler) MoveToTrash(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.trash.MoveToTrash)
}

func (h *SellerHandler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.trash.Restore)
}

func (h *SellerHandler) PurgeProduct(w http.ResponseWriter, r *http.Request) {
	h.productAction(w, r, h.trash.Purge)
}

func (h *SellerHandler) productAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID, storeID, productID string) error) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	if err := action(r.Context(), userID, r.PathValue("storeId"), r.PathValue("productId")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SellerHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	n, err := h.trash.EmptyTrash(r.Context(), userID, r.PathValue("storeId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// --- Orders ---

func (h *SellerHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit := utils.ParseInt(q.Get("limit"), 50)
	if limit < 1 {
		limit = 50
	}
	page := utils.ParseInt(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	filter := domain.OrderFilter{
		Status: q.Get("status"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	result, err := h.orders.ListOrders(r.Context(), userID, r.PathValue("storeId"), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *SellerHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(r.Context(), userID, r.PathValue("storeId"), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *SellerHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	var req updateStatusReq
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), userID, r.PathValue("storeId"), r.PathValue("id"), req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

// --- AI ---

func (h *SellerHandler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := sellerID(w, r)
	if !ok {
		return
	}
	s, err := h.ai.SuggestTags(r.Context(), userID, r.PathValue("storeId"), r.PathValue("productId"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}
