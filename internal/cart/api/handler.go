package api

import (
	"fmt"
	"net/http"

	"rose-booking/internal/cart"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/session"
	"rose-booking/internal/utils"
)

type Handler struct {
	CartService *cart.Service
	Logger      *logger.Logger
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("CART", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddToCartRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.CartService.AddItem(r.Context(), session.FromContext(r.Context()), req.MenuItemID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("item added to cart", item))
}

func (h *Handler) AddMultiple(w http.ResponseWriter, r *http.Request) {
	var req models.AddMultipleItemsRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	items, err := h.CartService.AddMultiple(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("items added to cart", items))
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.CartService.GetCart(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("cart", items))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.CartService.RemoveItem(r.Context(), id, session.FromContext(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("item removed from cart", nil))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	n, err := h.CartService.ClearCart(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("cart cleared", map[string]int64{"removed": n}))
}
