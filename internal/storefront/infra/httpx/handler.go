// Package httpx exposes the storefront over HTTP. Each endpoint translates
// a request into the corresponding user-intent event on the session bus and
// answers with the view snapshot the coordinator rebuilt.
package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/storefront/app"
)

// SessionHeader carries the session id issued by POST /session.
const SessionHeader = "X-Session-Id"

// Handler handles storefront HTTP requests against the session hub.
type Handler struct {
	hub *app.Hub
}

// NewHandler initializes the handler with its session hub.
func NewHandler(hub *app.Hub) *Handler {
	return &Handler{hub: hub}
}

// OpenSession creates a new storefront session and loads its catalog.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	s := h.hub.Open(r.Context())
	w.Header().Set(SessionHeader, s.ID)
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: s.ID})
}

// GetPage returns the page snapshot: catalog cards, basket counter, lock.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Page())
}

// SelectCard publishes card:select for a product and returns the preview.
func (h *Handler) SelectCard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	item, err := h.hub.ResolveProduct(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.SelectCard(r.Context(), item))
}

// GetPreview returns the currently previewed card, if any.
func (h *Handler) GetPreview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	preview, ok := s.Preview()
	if !ok {
		writeError(w, http.StatusNotFound, "no_preview", "")
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// GetBasket returns the basket snapshot.
func (h *Handler) GetBasket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Basket())
}

// OpenBasket publishes basket:open.
func (h *Handler) OpenBasket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.OpenBasket(r.Context()))
}

// AddBasketItem puts a product into the basket. A duplicate id leaves the
// basket unchanged.
func (h *Handler) AddBasketItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	item, err := h.hub.ResolveProduct(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.AddItem(r.Context(), item))
}

// RemoveBasketItem publishes basket:remove. An absent id is a no-op.
func (h *Handler) RemoveBasketItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.RemoveItem(r.Context(), chi.URLParam(r, "id")))
}

// GetDraft returns the current order draft.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	draft := s.Draft()
	writeJSON(w, http.StatusOK, DraftResponse{
		Total:   draft.Total,
		Items:   draft.Items,
		Email:   draft.Email,
		Phone:   draft.Phone,
		Address: draft.Address,
		Payment: draft.Payment,
	})
}

// OpenOrder publishes order:open, starting the payment step.
func (h *Handler) OpenOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, FormResponse{Form: s.OpenOrder(r.Context())})
}

// ChangeOrderField publishes order:change for one field. Invalid payment
// values are swallowed by the store, so the response simply reflects the
// unchanged form state.
func (h *Handler) ChangeOrderField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req OrderFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "field is required")
		return
	}
	writeJSON(w, http.StatusOK, FormResponse{Form: s.ChangeField(r.Context(), req.Field, req.Value)})
}

// SubmitOrder publishes order:submit, gating the contact step on payment
// validation.
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	form, advanced := s.SubmitOrder(r.Context())
	writeJSON(w, http.StatusOK, SubmitOrderResponse{Advanced: advanced, Form: form})
}

// SubmitContacts publishes contacts:submit. A validation failure answers
// 200 with the form errors; a backend rejection answers 502 with the
// rejection reason.
func (h *Handler) SubmitContacts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	success, form, submitted, err := s.SubmitContacts(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "order_rejected", err.Error())
		return
	}
	resp := SubmitContactsResponse{Submitted: submitted, Form: form}
	if submitted {
		resp.Order = &success
	}
	writeJSON(w, http.StatusOK, resp)
}

// CloseSuccess publishes success:close, clearing basket and order.
func (h *Handler) CloseSuccess(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CloseSuccess(r.Context())
	writeJSON(w, http.StatusOK, s.Page())
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "session_required", "missing "+SessionHeader+" header")
		return nil, false
	}
	s, ok := h.hub.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session_not_found", "")
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
