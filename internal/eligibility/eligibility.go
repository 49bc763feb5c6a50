// Package eligibility computes the return-window status of an order from its
// placement date. The result is derived on every read and never persisted, so
// it always reflects current wall-clock time.
package eligibility

import (
	"fmt"
	"time"
)

// Status buckets an order relative to the return window.
type Status string

const (
	StatusEligible Status = "eligible"
	StatusWarning  Status = "warning"
	StatusExpired  Status = "expired"
)

// Policy holds the return-window thresholds. The store policy is 15 days plus
// one day of grace, with a warning window up to and including the last
// eligible day; the day after that is the hard cutoff.
type Policy struct {
	// WindowDays is the number of days an order stays fully eligible.
	WindowDays int
	// LastWarningDay is the last day (inclusive) a return is still accepted.
	LastWarningDay int
}

// DefaultPolicy mirrors the store's published return policy.
func DefaultPolicy() Policy {
	return Policy{WindowDays: 16, LastWarningDay: 18}
}

// Info describes the computed eligibility of a single order.
type Info struct {
	Status         Status `json:"status"`
	DaysRemaining  int    `json:"daysRemaining"`
	DaysSinceOrder int    `json:"daysSinceOrder"`
	Message        string `json:"message,omitempty"`
}

// Calculate buckets an order by whole days elapsed between its placement and
// now (floor division).
func Calculate(orderDate, now time.Time, policy Policy) Info {
	daysSinceOrder := int(now.Sub(orderDate) / (24 * time.Hour))

	switch {
	case daysSinceOrder < policy.WindowDays:
		return Info{
			Status:         StatusEligible,
			DaysRemaining:  policy.WindowDays - daysSinceOrder,
			DaysSinceOrder: daysSinceOrder,
		}
	case daysSinceOrder <= policy.LastWarningDay:
		daysLeft := policy.LastWarningDay - daysSinceOrder + 1
		return Info{
			Status:         StatusWarning,
			DaysRemaining:  daysLeft,
			DaysSinceOrder: daysSinceOrder,
			Message:        fmt.Sprintf("Mai ai doar %d zile pentru retur", daysLeft),
		}
	default:
		return Info{
			Status:         StatusExpired,
			DaysRemaining:  0,
			DaysSinceOrder: daysSinceOrder,
			Message:        "Nu mai sunteți eligibil pentru retur",
		}
	}
}
