package domain

import "errors"

var (
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrBelowMinimum            = errors.New("amount below minimum withdrawal")
	ErrUnsupportedMethod       = errors.New("unsupported payout method")
	ErrRequestAlreadyPending   = errors.New("payout request already pending")
	ErrAlreadyClaimedToday     = errors.New("task already claimed today")
	ErrDailyLimitReached       = errors.New("daily earning limit reached")
	ErrTimerNotElapsed         = errors.New("task timer not elapsed")
	ErrUnknownTask             = errors.New("unknown task")
	ErrRequestNotFound         = errors.New("payout request not found")
	ErrRequestAlreadyProcessed = errors.New("payout request already processed")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrAccountNotFound         = errors.New("account not found")
)
