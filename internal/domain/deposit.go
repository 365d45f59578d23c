package domain

import (
	"encoding/json"
	"time"
)

// Deposit status constants. A deposit starts pending and transitions exactly
// once to one of the terminal states.
const (
	DepositStatusPending  = "pending"
	DepositStatusVerified = "verified"
	DepositStatusRejected = "rejected"
)

// Deposit method kinds.
const (
	DepositMethodCash         = "cash"
	DepositMethodCheck        = "check"
	DepositMethodBankTransfer = "bank_transfer"
	DepositMethodOther        = "other"
)

// Audit actions recorded on a deposit.
const (
	AuditActionSubmitted      = "submitted"
	AuditActionVerified       = "verified"
	AuditActionRejected       = "rejected"
	AuditActionReceiptRemoved = "receipt_removed"
)

// DepositMethod is a tagged variant: Detail is meaningful only when
// Kind is "other". Modeling the pair together removes the class of
// inconsistency where a detail is present for a non-other method.
type DepositMethod struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Validate checks the method kind and the other-method detail rule.
func (m DepositMethod) Validate() error {
	switch m.Kind {
	case DepositMethodCash, DepositMethodCheck, DepositMethodBankTransfer:
		if m.Detail != "" {
			return ErrValidation("deposit method detail is only valid with method %q", DepositMethodOther)
		}
		return nil
	case DepositMethodOther:
		if m.Detail == "" {
			return ErrValidation("deposit method %q requires a description", DepositMethodOther)
		}
		return nil
	}
	return ErrValidation("invalid deposit method %q", m.Kind)
}

// AuditEntry is one record in a deposit's append-only audit log.
// Entries are never mutated or removed once written.
type AuditEntry struct {
	Action        string          `json:"action"`
	CreatedBy     string          `json:"createdBy"`
	CreatedByName string          `json:"createdByName,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Note          string          `json:"note,omitempty"`
	PreviousData  json.RawMessage `json:"previousData,omitempty"`
	NewData       json.RawMessage `json:"newData,omitempty"`
}

// Deposit is a fund-deposit record with its embedded audit history.
type Deposit struct {
	ID              string
	Title           string
	Amount          int64 // cents, must be > 0
	DepositDate     time.Time
	Method          DepositMethod
	Purpose         string
	Description     string
	DepositedBy     string
	Status          string
	RejectionReason string // required iff Status == rejected
	ReceiptFiles    []string
	AuditLog        []AuditEntry
	SubmittedAt     time.Time
	VerifiedAt      *time.Time
	VerifiedBy      *string
	EditedAt        *time.Time
	EditedBy        *string
}

// Terminal reports whether the deposit is in a terminal state.
func (d *Deposit) Terminal() bool {
	return d.Status == DepositStatusVerified || d.Status == DepositStatusRejected
}

// CanView reports whether the principal may read this deposit.
// A deposit is visible only to its submitter and to administrators.
func (d *Deposit) CanView(p Principal) bool {
	return p.ID == d.DepositedBy || p.IsAdmin()
}

// DepositDraft is the caller-supplied input to submit.
type DepositDraft struct {
	Title        string
	Amount       int64
	DepositDate  time.Time
	Method       DepositMethod
	Purpose      string
	Description  string
	ReceiptFiles []string
}

// Validate checks the draft's required fields.
func (d *DepositDraft) Validate() error {
	if d.Title == "" {
		return ErrValidation("deposit title is required")
	}
	if d.Amount <= 0 {
		return ErrValidation("deposit amount must be positive")
	}
	if d.Purpose == "" {
		return ErrValidation("deposit purpose is required")
	}
	return d.Method.Validate()
}
