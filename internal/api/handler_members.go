package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgdesk/internal/domain"
	"orgdesk/internal/middleware"
)

// principal extracts the resolved principal, answering 401 when the
// authentication middleware did not run.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorBody{
			Code:    http.StatusUnauthorized,
			Message: "authentication required",
		})
	}
	return p, ok
}

type memberResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Position       *string   `json:"position,omitempty"`
	Status         string    `json:"status"`
	Points         int       `json:"points"`
	PID            *string   `json:"pid,omitempty"`
	MemberID       *string   `json:"memberId,omitempty"`
	Major          *string   `json:"major,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	SignInMethod   string    `json:"signInMethod,omitempty"`
	LastUpdated    time.Time `json:"lastUpdated"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

func memberToAPI(m *domain.MemberRecord) memberResponse {
	return memberResponse{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		Role:           string(m.Role),
		Position:       m.Position,
		Status:         m.Status,
		Points:         m.Points,
		PID:            m.PID,
		MemberID:       m.MemberID,
		Major:          m.Major,
		GraduationYear: m.GraduationYear,
		SignInMethod:   m.SignInMethod,
		LastUpdated:    m.LastUpdated,
		LastUpdatedBy:  m.LastUpdatedBy,
	}
}

type memberPatchRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	Position       *string `json:"position"`
	Status         *string `json:"status"`
	Points         *int    `json:"points"`
	Major          *string `json:"major"`
	GraduationYear *int    `json:"graduationYear"`
}

func (req *memberPatchRequest) toPatch() (domain.MemberPatch, error) {
	patch := domain.MemberPatch{
		Name:           req.Name,
		Email:          req.Email,
		Position:       req.Position,
		Status:         req.Status,
		Points:         req.Points,
		Major:          req.Major,
		GraduationYear: req.GraduationYear,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			return patch, domain.ErrValidation("invalid role %q", *req.Role)
		}
		patch.Role = &role
	}
	return patch, nil
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	members, err := h.members.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]memberResponse, len(members))
	for i := range members {
		out[i] = memberToAPI(&members[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	m, err := h.members.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, memberToAPI(m))
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req memberPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	m, err := h.members.Update(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, memberToAPI(m))
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := h.members.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
