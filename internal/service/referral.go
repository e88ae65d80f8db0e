package service

import (
	"errors"
	"log/slog"

	"github.com/bitcorise/earnbot/internal/domain"
	"github.com/shopspring/decimal"
)

// Referrals credits the one-shot bonus to a referring user when a new user's
// first session carries their identifier.
type Referrals struct {
	ledger *Ledger
	bonus  decimal.Decimal

	// countsTowardCap gates the bonus by the referrer's own daily limit.
	// Off by default: the source system credited referral bonuses past the
	// cap, and that behavior is preserved unless configured otherwise.
	countsTowardCap bool
}

func NewReferrals(ledger *Ledger, bonus decimal.Decimal, countsTowardCap bool) *Referrals {
	return &Referrals{ledger: ledger, bonus: bonus, countsTowardCap: countsTowardCap}
}

// Bonus returns the configured per-referral bonus.
func (r *Referrals) Bonus() decimal.Decimal {
	return r.bonus
}

// Attribute grants the bonus to referrerID for bringing in newUserID.
// Callers invoke it only on the new user's first contact. The bonus is
// skipped (not an error) when the referrer is unknown, is the new user
// themselves, or - with the cap flag on - has exhausted today's limit.
func (r *Referrals) Attribute(newUserID, referrerID string) (bool, error) {
	if referrerID == "" || referrerID == newUserID {
		return false, nil
	}
	if _, err := r.ledger.Account(referrerID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return false, nil
		}
		return false, err
	}
	if r.countsTowardCap {
		ok, err := r.ledger.CanAccrue(referrerID, r.bonus)
		if err != nil {
			return false, err
		}
		if !ok {
			slog.Info("referral bonus withheld by daily cap", "referrer_id", referrerID)
			return false, nil
		}
	}

	if _, err := r.ledger.CreditReferral(referrerID, r.bonus); err != nil {
		return false, err
	}
	slog.Info("referral bonus granted",
		"referrer_id", referrerID,
		"new_user_id", newUserID,
		"bonus", r.bonus.String(),
	)
	return true, nil
}
