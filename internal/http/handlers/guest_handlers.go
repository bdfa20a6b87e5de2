package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/http/response"
	"github.com/doorlist/doorlist/pkg/logger"
)

// RegisterGuest is the public self-service registration endpoint. The event
// id comes from the route, never the body.
func (h *Handlers) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	eventID, ok := urlID(r, "eventID")
	if !ok {
		response.BadRequest(w, "invalid event id")
		return
	}

	var req domain.RegisterGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	guest, err := h.guests.Register(r.Context(), eventID, &req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, vErr.Msg)
			return
		}
		logger.ErrorContext(r.Context(), "failed to register guest", "error", err, "event_id", eventID)
		response.InternalError(w, "failed to register guest")
		return
	}
	if guest == nil {
		response.NotFound(w, "event not found")
		return
	}

	response.JSON(w, http.StatusCreated, guest)
}

func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	eventID, ok := urlID(r, "eventID")
	if !ok {
		response.BadRequest(w, "invalid event id")
		return
	}

	guests, err := h.guests.ListByEvent(r.Context(), eventID)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list guests", "error", err, "event_id", eventID)
		response.InternalError(w, "failed to list guests")
		return
	}
	if guests == nil {
		guests = []domain.Guest{}
	}

	response.JSON(w, http.StatusOK, guests)
}

func (h *Handlers) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid guest id")
		return
	}

	var patch domain.GuestPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	guest, err := h.guests.Update(r.Context(), id, patch)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to update guest", "error", err, "guest_id", id)
		response.InternalError(w, "failed to update guest")
		return
	}
	if guest == nil {
		response.NotFound(w, "guest not found")
		return
	}

	response.JSON(w, http.StatusOK, guest)
}

func (h *Handlers) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid guest id")
		return
	}

	removed, err := h.guests.Remove(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to delete guest", "error", err, "guest_id", id)
		response.InternalError(w, "failed to delete guest")
		return
	}
	if !removed {
		response.NotFound(w, "guest not found")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "guest removed"})
}

// CheckInGuest marks the guest present. The realtime push happens after the
// mutation commits and never affects this response.
func (h *Handlers) CheckInGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid guest id")
		return
	}

	guest, err := h.checkin.CheckIn(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to check in guest", "error", err, "guest_id", id)
		response.InternalError(w, "failed to check in guest")
		return
	}
	if guest == nil {
		response.NotFound(w, "guest not found")
		return
	}

	response.JSON(w, http.StatusOK, guest)
}

// ExportGuests streams the guest list as a CSV attachment. An optional
// fields query parameter projects each row to exactly those columns.
func (h *Handlers) ExportGuests(w http.ResponseWriter, r *http.Request) {
	eventID, ok := urlID(r, "eventID")
	if !ok {
		response.BadRequest(w, "invalid event id")
		return
	}

	var fields []string
	if raw := r.URL.Query().Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	data, err := h.export.ExportCSV(r.Context(), eventID, fields)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to export guests", "error", err, "event_id", eventID)
		response.InternalError(w, "failed to export guests")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="guests.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type sendEmailRequest struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	Message string   `json:"message"`
}

// SendBulkEmail dispatches one message to a list of guests in a single send.
func (h *Handlers) SendBulkEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}
	if len(req.Emails) == 0 {
		response.BadRequest(w, "emails is required")
		return
	}
	if req.Subject == "" {
		response.BadRequest(w, "subject is required")
		return
	}

	if err := h.mailer.SendMessage(r.Context(), req.Emails, req.Subject, req.Message); err != nil {
		logger.ErrorContext(r.Context(), "bulk email delivery failed", "error", err, "recipients", len(req.Emails))
		response.DeliveryError(w, "failed to send emails")
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"message":    "emails sent",
		"recipients": len(req.Emails),
	})
}
