package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/http/response"
	"github.com/doorlist/doorlist/pkg/logger"
)

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "missing credentials")
		return
	}

	event, err := h.events.Create(r.Context(), &req, claims.Sub)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, vErr.Msg)
			return
		}
		logger.ErrorContext(r.Context(), "failed to create event", "error", err)
		response.InternalError(w, "failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, event)
}

func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r, "id")
	if !ok {
		response.BadRequest(w, "invalid event id")
		return
	}

	event, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to get event", "error", err, "event_id", id)
		response.InternalError(w, "failed to get event")
		return
	}
	if event == nil {
		response.NotFound(w, "event not found")
		return
	}

	response.JSON(w, http.StatusOK, event)
}

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list events", "error", err)
		response.InternalError(w, "failed to list events")
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	response.JSON(w, http.StatusOK, events)
}
