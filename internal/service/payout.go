package service

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/bitcorise/earnbot/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payouts runs the payout-request lifecycle: pending -> approved or
// pending -> rejected, nothing else. Funds are reserved (debited) at
// submission and restored on rejection, so two requests can never spend the
// same balance.
type Payouts struct {
	store       *repository.Store
	ledger      *Ledger
	methods     map[string]domain.PayoutMethod
	minWithdraw decimal.Decimal
	adminID     int64
	now         func() time.Time
	newID       func() string
}

func NewPayouts(store *repository.Store, ledger *Ledger, methods map[string]domain.PayoutMethod, minWithdraw decimal.Decimal, adminID int64) *Payouts {
	p := &Payouts{
		store:       store,
		ledger:      ledger,
		methods:     methods,
		minWithdraw: minWithdraw,
		adminID:     adminID,
		now:         time.Now,
	}
	p.newID = p.generateID
	return p
}

// generateID produces request IDs in the legacy REQ_<unix>_<suffix> shape
// admins are used to typing, with a random suffix.
func (p *Payouts) generateID() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("REQ_%d_%s", p.now().Unix(), suffix)
}

// MinWithdraw returns the configured minimum withdrawal amount.
func (p *Payouts) MinWithdraw() decimal.Decimal {
	return p.minWithdraw
}

// Methods returns the enabled payout methods keyed by method key.
func (p *Payouts) Methods() map[string]domain.PayoutMethod {
	enabled := make(map[string]domain.PayoutMethod, len(p.methods))
	for key, m := range p.methods {
		if m.Enabled {
			enabled[key] = m
		}
	}
	return enabled
}

// Submit validates and creates a pending request, debiting the amount in the
// same store update. At most one pending request per user may exist.
func (p *Payouts) Submit(userID, username string, amount decimal.Decimal, methodKey, address string) (string, error) {
	method, ok := p.methods[methodKey]
	if !ok || !method.Enabled {
		return "", domain.ErrUnsupportedMethod
	}
	if amount.LessThan(p.minWithdraw) {
		return "", domain.ErrBelowMinimum
	}

	var id string
	err := p.store.Update(func(st *repository.State) error {
		for _, req := range st.PayoutRequests {
			if req.UserID == userID && req.Status == domain.PayoutStatusPending {
				return domain.ErrRequestAlreadyPending
			}
		}
		if err := p.ledger.WithState(st).Debit(userID, amount); err != nil {
			return err
		}
		id = p.newID()
		st.PayoutRequests[id] = &domain.PayoutRequest{
			ID:        id,
			UserID:    userID,
			Username:  username,
			Amount:    amount,
			Method:    method.Name,
			Address:   address,
			Status:    domain.PayoutStatusPending,
			CreatedAt: p.now(),
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	slog.Info("payout request submitted",
		"request_id", id,
		"user_id", userID,
		"amount", amount.String(),
		"method", method.Name,
	)
	return id, nil
}

// Approve marks a pending request approved. The balance was already debited
// at submission, so approval touches no funds.
func (p *Payouts) Approve(requestID string, actingAdmin int64) (domain.PayoutRequest, error) {
	var out domain.PayoutRequest
	err := p.store.Update(func(st *repository.State) error {
		req, err := p.pendingRequest(st, requestID, actingAdmin)
		if err != nil {
			return err
		}
		processedAt := p.now()
		req.Status = domain.PayoutStatusApproved
		req.ProcessedAt = &processedAt
		out = *req
		return nil
	})
	if err != nil {
		return domain.PayoutRequest{}, err
	}
	slog.Info("payout approved", "request_id", requestID, "user_id", out.UserID, "amount", out.Amount.String())
	return out, nil
}

// Reject marks a pending request rejected, records the reason, and restores
// the reserved amount to the user's balance in the same update.
func (p *Payouts) Reject(requestID string, actingAdmin int64, reason string) (domain.PayoutRequest, error) {
	var out domain.PayoutRequest
	err := p.store.Update(func(st *repository.State) error {
		req, err := p.pendingRequest(st, requestID, actingAdmin)
		if err != nil {
			return err
		}
		if err := p.ledger.WithState(st).Restore(req.UserID, req.Amount); err != nil {
			return err
		}
		processedAt := p.now()
		req.Status = domain.PayoutStatusRejected
		req.ProcessedAt = &processedAt
		req.AdminNote = reason
		out = *req
		return nil
	})
	if err != nil {
		return domain.PayoutRequest{}, err
	}
	slog.Info("payout rejected", "request_id", requestID, "user_id", out.UserID, "reason", reason)
	return out, nil
}

func (p *Payouts) pendingRequest(st *repository.State, requestID string, actingAdmin int64) (*domain.PayoutRequest, error) {
	if actingAdmin != p.adminID {
		return nil, domain.ErrNotAuthorized
	}
	req, ok := st.PayoutRequests[requestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if req.Processed() {
		return nil, domain.ErrRequestAlreadyProcessed
	}
	return req, nil
}

// Get returns a copy of one request.
func (p *Payouts) Get(requestID string) (domain.PayoutRequest, error) {
	var (
		out   domain.PayoutRequest
		found bool
	)
	p.store.View(func(st *repository.State) {
		if req, ok := st.PayoutRequests[requestID]; ok {
			out = *req
			found = true
		}
	})
	if !found {
		return domain.PayoutRequest{}, domain.ErrRequestNotFound
	}
	return out, nil
}

// ListPending returns all pending requests, oldest first.
func (p *Payouts) ListPending() []domain.PayoutRequest {
	var pending []domain.PayoutRequest
	p.store.View(func(st *repository.State) {
		for _, req := range st.PayoutRequests {
			if req.Status == domain.PayoutStatusPending {
				pending = append(pending, *req)
			}
		}
	})
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}

// PendingFor returns the user's pending requests, oldest first.
func (p *Payouts) PendingFor(userID string) []domain.PayoutRequest {
	var pending []domain.PayoutRequest
	p.store.View(func(st *repository.State) {
		for _, req := range st.PayoutRequests {
			if req.UserID == userID && req.Status == domain.PayoutStatusPending {
				pending = append(pending, *req)
			}
		}
	})
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending
}
