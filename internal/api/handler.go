// Package api provides the HTTP handlers for the membership dashboard REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgdesk/internal/middleware"
	"orgdesk/internal/service"
)

// Handler exposes the core services over HTTP.
type Handler struct {
	members    *service.MemberService
	deposits   *service.DepositService
	invites    *service.InviteService
	presignTTL time.Duration
	logger     *slog.Logger
}

// NewHandler creates a new Handler with its service dependencies.
// presignTTL bounds receipt download URLs.
func NewHandler(
	members *service.MemberService,
	deposits *service.DepositService,
	invites *service.InviteService,
	presignTTL time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		members:    members,
		deposits:   deposits,
		invites:    invites,
		presignTTL: presignTTL,
		logger:     logger,
	}
}

// Routes mounts all API routes on the given router. The router is expected
// to already carry the authentication middleware; every handler reads the
// resolved principal from the request context and passes it explicitly into
// the services.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.listMembers)
		r.Get("/{id}", h.getMember)
		r.Patch("/{id}", h.updateMember)
		r.Delete("/{id}", h.deleteMember)
	})

	r.Route("/deposits", func(r chi.Router) {
		r.Post("/", h.submitDeposit)
		r.Get("/", h.listDeposits)
		r.Get("/{id}", h.getDeposit)
		r.Post("/{id}/verify", h.verifyDeposit)
		r.Post("/{id}/reject", h.rejectDeposit)
		r.Delete("/{id}", h.removeDeposit)
		r.Get("/{id}/receipts/{ref}", h.presignReceipt)
		r.Delete("/{id}/receipts/{ref}", h.removeReceipt)
	})

	r.Route("/invites", func(r chi.Router) {
		r.Post("/", h.issueInvite)
		r.Get("/", h.listInvites)
	})
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFromDomainError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err)
		// Don't leak internals.
		respondJSON(w, status, errorBody{Code: status, Message: "internal server error"})
		return
	}
	respondJSON(w, status, errorBody{Code: status, Message: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
