package api

import (
	"net/http"
	"time"

	"orgdesk/internal/domain"
)

type inviteRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Position string `json:"position"`
	Message  string `json:"message"`
}

type inviteResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Position  string    `json:"position,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func inviteToAPI(inv *domain.Invitation) inviteResponse {
	return inviteResponse{
		ID:        inv.ID,
		Name:      inv.Name,
		Email:     inv.Email,
		Role:      string(inv.Role),
		Position:  inv.Position,
		Message:   inv.Message,
		Status:    inv.Status,
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt,
		ExpiresAt: inv.ExpiresAt,
	}
}

func (h *Handler) issueInvite(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	inv, err := h.invites.Issue(r.Context(), actor, domain.InvitationDraft{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
		Position: req.Position,
		Message:  req.Message,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, inviteToAPI(inv))
}

func (h *Handler) listInvites(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	invites, err := h.invites.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]inviteResponse, len(invites))
	for i := range invites {
		out[i] = inviteToAPI(&invites[i])
	}
	respondJSON(w, http.StatusOK, out)
}
