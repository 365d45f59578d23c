package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orgdesk/internal/domain"
)

type auditEntryResponse struct {
	Action        string    `json:"action"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByName string    `json:"createdByName,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Note          string    `json:"note,omitempty"`
}

type depositResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Amount          int64                `json:"amount"`
	DepositDate     time.Time            `json:"depositDate"`
	Method          domain.DepositMethod `json:"method"`
	Purpose         string               `json:"purpose"`
	Description     string               `json:"description,omitempty"`
	DepositedBy     string               `json:"depositedBy"`
	Status          string               `json:"status"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	ReceiptFiles    []string             `json:"receiptFiles"`
	AuditLog        []auditEntryResponse `json:"auditLog"`
	SubmittedAt     time.Time            `json:"submittedAt"`
	VerifiedAt      *time.Time           `json:"verifiedAt,omitempty"`
	VerifiedBy      *string              `json:"verifiedBy,omitempty"`
}

func depositToAPI(d *domain.Deposit) depositResponse {
	audit := make([]auditEntryResponse, len(d.AuditLog))
	for i, e := range d.AuditLog {
		audit[i] = auditEntryResponse{
			Action:        e.Action,
			CreatedBy:     e.CreatedBy,
			CreatedByName: e.CreatedByName,
			Timestamp:     e.Timestamp,
			Note:          e.Note,
		}
	}
	files := d.ReceiptFiles
	if files == nil {
		files = []string{}
	}
	return depositResponse{
		ID:              d.ID,
		Title:           d.Title,
		Amount:          d.Amount,
		DepositDate:     d.DepositDate,
		Method:          d.Method,
		Purpose:         d.Purpose,
		Description:     d.Description,
		DepositedBy:     d.DepositedBy,
		Status:          d.Status,
		RejectionReason: d.RejectionReason,
		ReceiptFiles:    files,
		AuditLog:        audit,
		SubmittedAt:     d.SubmittedAt,
		VerifiedAt:      d.VerifiedAt,
		VerifiedBy:      d.VerifiedBy,
	}
}

type depositDraftRequest struct {
	Title        string               `json:"title"`
	Amount       int64                `json:"amount"`
	DepositDate  time.Time            `json:"depositDate"`
	Method       domain.DepositMethod `json:"method"`
	Purpose      string               `json:"purpose"`
	Description  string               `json:"description"`
	ReceiptFiles []string             `json:"receiptFiles"`
}

func (h *Handler) submitDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req depositDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	d, err := h.deposits.Submit(r.Context(), actor, domain.DepositDraft{
		Title:        req.Title,
		Amount:       req.Amount,
		DepositDate:  req.DepositDate,
		Method:       req.Method,
		Purpose:      req.Purpose,
		Description:  req.Description,
		ReceiptFiles: req.ReceiptFiles,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, depositToAPI(d))
}

func (h *Handler) listDeposits(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	deposits, err := h.deposits.List(r.Context(), actor)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]depositResponse, len(deposits))
	for i := range deposits {
		out[i] = depositToAPI(&deposits[i])
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) getDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	d, err := h.deposits.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, depositToAPI(d))
}

func (h *Handler) verifyDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	d, err := h.deposits.Verify(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, depositToAPI(d))
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) rejectDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, domain.ErrValidation("invalid request body: %v", err))
		return
	}
	d, err := h.deposits.Reject(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, depositToAPI(d))
}

func (h *Handler) removeDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := h.deposits.Remove(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	d, err := h.deposits.RemoveReceiptFile(r.Context(), actor,
		chi.URLParam(r, "id"), chi.URLParam(r, "ref"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, depositToAPI(d))
}

type presignResponse struct {
	URL string `json:"url"`
}

func (h *Handler) presignReceipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.principal(w, r)
	if !ok {
		return
	}
	url, err := h.deposits.PresignReceipt(r.Context(), actor,
		chi.URLParam(r, "id"), chi.URLParam(r, "ref"), h.presignTTL)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, presignResponse{URL: url})
}
