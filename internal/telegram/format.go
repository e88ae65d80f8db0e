package telegram

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary amount with the currency symbol,
// e.g. "$1.25".
func FormatAmount(amount decimal.Decimal, currency string) string {
	return currency + amount.StringFixed(2)
}

// FormatDuration renders a wait duration as "1m 30s" or "45s".
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	if total < 0 {
		total = 0
	}
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	m, s := total/60, total%60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}
