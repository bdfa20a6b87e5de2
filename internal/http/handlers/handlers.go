package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/doorlist/doorlist/internal/http/response"
	"github.com/doorlist/doorlist/internal/mailer"
	"github.com/doorlist/doorlist/internal/service"
	"github.com/doorlist/doorlist/pkg/auth"
	"github.com/doorlist/doorlist/pkg/config"
	"github.com/doorlist/doorlist/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	auth    service.AuthService
	events  service.EventService
	guests  service.GuestService
	checkin service.CheckInService
	export  service.ExportService
	mailer  mailer.Mailer
	config  *config.Config
}

func New(
	authSvc service.AuthService,
	eventSvc service.EventService,
	guestSvc service.GuestService,
	checkinSvc service.CheckInService,
	exportSvc service.ExportService,
	m mailer.Mailer,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		auth:    authSvc,
		events:  eventSvc,
		guests:  guestSvc,
		checkin: checkinSvc,
		export:  exportSvc,
		mailer:  m,
		config:  cfg,
	}
}

type ctxKey string

const ctxClaims ctxKey = "claims"

// RequireAuth gates a route on a valid bearer token, and optionally on a
// specific role. With an empty requiredRole any authenticated user passes.
func (h *Handlers) RequireAuth(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				response.Unauthorized(w, "missing or invalid authorization header")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				response.Forbidden(w, "insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), logger.UserIDKey, claims.Sub)
			ctx = context.WithValue(ctx, ctxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(ctxClaims).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
