package api

import (
	"fmt"
	"net/http"

	"rose-booking/internal/catalog"
	"rose-booking/internal/logger"
	"rose-booking/internal/models"
	"rose-booking/internal/utils"
)

type Handler struct {
	CatalogService *catalog.Service
	Logger         *logger.Logger
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status := utils.WriteError(w, err); status >= http.StatusInternalServerError {
		h.Logger.Error("CATALOG", fmt.Sprintf("%s %s: %v", r.Method, r.URL.Path, err))
	}
}

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.CatalogService.ListRestaurants(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("restaurants", restaurants))
}

func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRestaurantRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	restaurant, err := h.CatalogService.CreateRestaurant(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("restaurant created", restaurant))
}

func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.CatalogService.DeleteRestaurant(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tables, err := h.CatalogService.ListTables(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("tables", tables))
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.CreateTableRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	table, err := h.CatalogService.CreateTable(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("table created", table))
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.CreateCategoryRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	category, err := h.CatalogService.CreateCategory(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("category created", category))
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "restaurantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	menu, err := h.CatalogService.GetMenu(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("menu", menu))
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMenuItemRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.CatalogService.CreateMenuItem(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("menu item created", item))
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := utils.IDParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req models.UpdateMenuItemRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	item, err := h.CatalogService.UpdateMenuItem(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("menu item updated", item))
}
