package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutStatusPending  PayoutStatus = "pending"
	PayoutStatusApproved PayoutStatus = "approved"
	PayoutStatusRejected PayoutStatus = "rejected"
)

// PayoutRequest is a user-initiated, admin-adjudicated withdrawal. The
// request ID is the map key in the snapshot document, so it carries no JSON
// tag of its own.
type PayoutRequest struct {
	ID          string          `json:"-"`
	UserID      string          `json:"user_id"`
	Username    string          `json:"username"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"payment_method"`
	Address     string          `json:"payment_address"`
	Status      PayoutStatus    `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
	AdminNote   string          `json:"admin_note"`
}

// Processed reports whether the request has left the pending state.
func (r *PayoutRequest) Processed() bool {
	return r.Status != PayoutStatusPending
}

// PayoutMethod is one configured withdrawal channel.
type PayoutMethod struct {
	Name          string `json:"name"`
	AddressFormat string `json:"address_format"`
	Instructions  string `json:"instructions,omitempty"`
	Enabled       bool   `json:"enabled"`
}
