package v1

import (
	"net/http"

	"storehub-backend/internal/delivery/http/middleware"
	"storehub-backend/internal/domain"
	"storehub-backend/internal/usecase"
	"storehub-backend/pkg/utils"
)

type OrderHandler struct {
	orderUC *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orderUC: uc}
}

// PlaceOrder accepts a guest, retail or wholesale order. The customer is the signed in user,
// if any; the body cannot name one.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	channel, err := domain.ParseOrderChannel(r.PathValue("channel"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req usecase.PlaceOrderInput
	if !decodeBody(w, r, &req) {
		return
	}
	req.CustomerID = nil
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		req.CustomerID = &user.ID
	}

	order, err := h.orderUC.PlaceOrder(r.Context(), channel, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, order)
}
