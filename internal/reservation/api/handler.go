package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rose-booking/internal/apperr"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/reservation"
	"rose-booking/internal/utils"
)

type Handler struct {
	ReservationService *reservation.Service
	Logger             *logger.Logger
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("RESERVATION", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
}

// GetAvailableTables answers 404 when no table fits the request.
func (h *Handler) GetAvailableTables(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	duration, err := utils.QueryInt(r, "duration")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	people, err := utils.QueryInt(r, "people")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	restaurantID, err := utils.QueryInt(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	tables, err := h.ReservationService.GetAvailableTables(r.Context(), models.CheckAvailabilityRequest{
		Date:         q.Get("date"),
		Hour:         q.Get("hour"),
		Duration:     duration,
		People:       people,
		RestaurantID: int64(restaurantID),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(tables) == 0 {
		h.fail(w, r, apperr.NotFound("no tables available for this time"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("available tables", tables))
}

func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReservationRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.ReservationService.CreateReservation(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("reservation created", resp))
}

func (h *Handler) GetByTrackingCode(w http.ResponseWriter, r *http.Request) {
	res, err := h.ReservationService.GetByTrackingCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("reservation", res))
}

func (h *Handler) TrackingQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.ReservationService.TrackingQR(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// ---------------- ADMIN ----------------

func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.ReservationService.ListReservations(r.Context(), models.ReservationFilter{
		Search:        q.Get("search"),
		CreatedAfter:  q.Get("createdAfter"),
		CreatedBefore: q.Get("createdBefore"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("reservations", list))
}

func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.ReservationService.GetReservation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("reservation", res))
}

func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.UpdateReservationRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.ReservationService.UpdateReservation(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("reservation updated", res))
}

func (h *Handler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.ReservationService.DeleteReservation(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
