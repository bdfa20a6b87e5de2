package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/http/response"
	"github.com/doorlist/doorlist/internal/service"
	"github.com/doorlist/doorlist/pkg/logger"
)

// Login exchanges email+password for a bearer token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	res, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, vErr.Msg)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, "invalid credentials")
		default:
			logger.ErrorContext(r.Context(), "login failed", "error", err)
			response.InternalError(w, "login failed")
		}
		return
	}

	response.JSON(w, http.StatusOK, res)
}
