package presentation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RaikyD/laundry-intake-service/internal/application"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/presentation/helpers"
	"github.com/RaikyD/laundry-intake-service/internal/validation"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	svc    *application.OrdersService
	raffle *application.RaffleService
}

func NewOrdersHandler(svc *application.OrdersService, raffle *application.RaffleService) *OrdersHandler {
	return &OrdersHandler{svc: svc, raffle: raffle}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api/drafts", func(r chi.Router) {
		r.Post("/", h.StartDraft)
		r.Get("/{id}", h.GetDraft)
		r.Patch("/{id}", h.UpdateDraft)
		r.Post("/{id}/next", h.NextStep)
		r.Post("/{id}/back", h.PrevStep)
		r.Post("/{id}/promo", h.VerifyPromo)
		r.Post("/{id}/submit", h.Submit)
	})
	r.Post("/api/raffle", h.EnterRaffle)
}

// draftView is a draft plus the fields the form shows at its step.
type draftView struct {
	application.Draft
	VisibleFields []validation.FieldID `json:"visibleFields"`
}

func viewOf(d application.Draft) draftView {
	return draftView{Draft: d, VisibleFields: application.VisibleFields(&d)}
}

func (h *OrdersHandler) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrdersHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	d := h.svc.StartDraft()
	helpers.WriteJSON(w, http.StatusCreated, viewOf(d))
}

func (h *OrdersHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDraft(chi.URLParam(r, "id"))
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, viewOf(d))
}

func (h *OrdersHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var p application.DraftPatch
	if err := helpers.DecodeJSON(r.Body, &p); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	d, err := h.svc.UpdateDraft(chi.URLParam(r, "id"), p)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, viewOf(d))
}

func (h *OrdersHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.NextStep(chi.URLParam(r, "id"))
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, viewOf(d))
}

func (h *OrdersHandler) PrevStep(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.PrevStep(chi.URLParam(r, "id"))
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, viewOf(d))
}

type promoRequest struct {
	Code string `json:"code"`
}

// VerifyPromo always answers 200 for a known draft; an unknown code shows up as a
// field error on the returned draft.
func (h *OrdersHandler) VerifyPromo(w http.ResponseWriter, r *http.Request) {
	var req promoRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	d, err := h.svc.VerifyPromo(chi.URLParam(r, "id"), req.Code)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, viewOf(d))
}

func (h *OrdersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	orderID, _, err := h.svc.Submit(r.Context(), id)
	if err != nil {
		writeDraftError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, map[string]string{
		"status":  "ok",
		"orderId": orderID,
	})
}

func (h *OrdersHandler) EnterRaffle(w http.ResponseWriter, r *http.Request) {
	var in application.RaffleInput
	if err := helpers.DecodeJSON(r.Body, &in); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	entry, err := h.raffle.Enter(r.Context(), in)
	if err != nil {
		if ve, ok := validation.AsError(err); ok {
			helpers.FieldErrors(w, ve.Fields)
			return
		}
		helpers.HttpError(w, http.StatusInternalServerError, "could not save raffle entry, please try again")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"status": "ok",
		"id":     entry.ID,
	})
}

func writeDraftError(w http.ResponseWriter, err error) {
	if ve, ok := validation.AsError(err); ok {
		helpers.FieldErrors(w, ve.Fields)
		return
	}
	switch {
	case errors.Is(err, application.ErrDraftNotFound):
		helpers.HttpError(w, http.StatusNotFound, "draft not found")
	case errors.Is(err, application.ErrWrongStep), errors.Is(err, application.ErrAlreadySubmitted):
		helpers.HttpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrFieldNotVisible):
		helpers.HttpError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Warn("draft request failed", "err", err)
		helpers.HttpError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}

func trimmedParam(r *http.Request, key string) string {
	return strings.TrimSpace(chi.URLParam(r, key))
}
