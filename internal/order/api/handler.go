package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/order"
	"rose-booking/internal/session"
	"rose-booking/internal/utils"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("ORDER", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceOrderRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	placed, err := h.OrderService.PlaceOrder(r.Context(), session.FromContext(r.Context()), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("order placed", placed))
}

func (h *Handler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderService.ListByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("orders", orders))
}

func (h *Handler) GetByTrackingCode(w http.ResponseWriter, r *http.Request) {
	o, err := h.OrderService.GetByTrackingCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("order", o))
}

func (h *Handler) TrackingQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.OrderService.TrackingQR(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ---------------- ADMIN ----------------

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderService.ListOrders(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("orders", orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	o, err := h.OrderService.GetOrder(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("order", o))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.OrderService.DeleteOrder(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
