package api

import (
	"fmt"
	"net/http"
	"strconv"

	"rose-booking/internal/analytics"
	"rose-booking/internal/apperr"
	"rose-booking/internal/logger"
	"rose-booking/internal/utils"
)

// Handler serves the admin dashboard endpoints.
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, logger *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("ANALYTICS", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
}

func restaurantID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("restaurantId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("restaurantId must be a positive integer")
	}
	return id, nil
}

// GET /api/admin/stats/dashboard?restaurantId=&date=
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, err := restaurantID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.Service.Dashboard(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("dashboard", summary))
}

// GET /api/admin/stats/sales?restaurantId=&from=&to=&top=
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	id, err := restaurantID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	top, err := utils.QueryInt(r, "top")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	report, err := h.Service.Sales(r.Context(), id, q.Get("from"), q.Get("to"), top)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("sales", report))
}
