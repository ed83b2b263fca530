package presentation

import (
	"errors"
	"net/http"

	"github.com/RaikyD/laundry-intake-service/internal/application"
	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/presentation/helpers"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminHandler struct {
	svc *application.OrdersService
}

func NewAdminHandler(svc *application.OrdersService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/orders", h.ListOrders)
		r.Get("/orders/{id}", h.GetOrder)
		r.Patch("/orders/{id}", h.UpdateOrder)
	})
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, application.ErrInvalidStatus) {
			helpers.HttpError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Warn("admin list orders failed", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	helpers.WriteJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimmedParam(r, "id"))
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}

// UpdateOrder changes status and/or notes. Concurrent edits are last-write-wins.
func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(trimmedParam(r, "id"))
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var upd domain.OrderUpdate
	if err := helpers.DecodeJSON(r.Body, &upd); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	o, err := h.svc.UpdateOrder(r.Context(), id, upd)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, o)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		helpers.HttpError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, application.ErrInvalidStatus):
		helpers.HttpError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Warn("admin order request failed", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "failed to update order")
	}
}
