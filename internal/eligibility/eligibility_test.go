package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	policy := DefaultPolicy()

	tests := []struct {
		name          string
		daysAgo       int
		status        Status
		daysRemaining int
	}{
		{"same day", 0, StatusEligible, 16},
		{"mid window", 10, StatusEligible, 6},
		{"last eligible day", 15, StatusEligible, 1},
		{"warning start", 16, StatusWarning, 3},
		{"warning middle", 17, StatusWarning, 2},
		{"last warning day", 18, StatusWarning, 1},
		{"expired", 19, StatusExpired, 0},
		{"long expired", 120, StatusExpired, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderDate := now.AddDate(0, 0, -tt.daysAgo)
			info := Calculate(orderDate, now, policy)

			assert.Equal(t, tt.status, info.Status)
			assert.Equal(t, tt.daysRemaining, info.DaysRemaining)
			assert.Equal(t, tt.daysAgo, info.DaysSinceOrder)
		})
	}
}

func TestCalculateFloorsPartialDays(t *testing.T) {
	orderDate := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	now := orderDate.Add(15*24*time.Hour + 23*time.Hour)

	info := Calculate(orderDate, now, DefaultPolicy())
	assert.Equal(t, 15, info.DaysSinceOrder)
	assert.Equal(t, StatusEligible, info.Status)
}

func TestCalculateMessages(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	eligible := Calculate(now.AddDate(0, 0, -5), now, DefaultPolicy())
	assert.Empty(t, eligible.Message)

	warning := Calculate(now.AddDate(0, 0, -17), now, DefaultPolicy())
	assert.Contains(t, warning.Message, "2 zile")

	expired := Calculate(now.AddDate(0, 0, -30), now, DefaultPolicy())
	assert.NotEmpty(t, expired.Message)
}

func TestCalculateCustomPolicy(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	policy := Policy{WindowDays: 30, LastWarningDay: 32}

	info := Calculate(now.AddDate(0, 0, -20), now, policy)
	assert.Equal(t, StatusEligible, info.Status)
	assert.Equal(t, 10, info.DaysRemaining)
}
