package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/clients/shopify"
	"github.com/maxari-shop/service-returns/internal/eligibility"
)

type fakePlatform struct {
	orderByNumber    *shopify.Order
	orderByNumberErr error
	customers        []shopify.Customer
	customersErr     error
	ordersByCustomer map[int64][]shopify.Order
	ordersByEmail    map[string][]shopify.Order
	emailErr         error

	mu           sync.Mutex
	emailQueries []string
}

func (f *fakePlatform) FindOrderByNumber(ctx context.Context, orderNumber string) (*shopify.Order, error) {
	return f.orderByNumber, f.orderByNumberErr
}

func (f *fakePlatform) FindCustomersByPhone(ctx context.Context, variants []string) ([]shopify.Customer, error) {
	return f.customers, f.customersErr
}

func (f *fakePlatform) FindOrdersByCustomerID(ctx context.Context, customerID int64) ([]shopify.Order, error) {
	return f.ordersByCustomer[customerID], nil
}

func (f *fakePlatform) FindOrdersByEmail(ctx context.Context, email string) ([]shopify.Order, error) {
	f.mu.Lock()
	f.emailQueries = append(f.emailQueries, email)
	f.mu.Unlock()
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	return f.ordersByEmail[email], nil
}

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestResolver(platform PlatformClient) *OrderResolutionService {
	svc := NewOrderResolutionService(platform, ResolutionConfig{}, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func billedOrder(id int64, name string, createdAt time.Time) shopify.Order {
	return shopify.Order{
		ID:             id,
		Name:           "#MX1000",
		CreatedAt:      createdAt,
		BillingAddress: &shopify.Address{Name: name},
	}
}

func TestResolveValidation(t *testing.T) {
	resolver := newTestResolver(&fakePlatform{})

	tests := []struct {
		name     string
		criteria SearchCriteria
		field    string
	}{
		{"nothing supplied", SearchCriteria{FullName: "Popescu Ion"}, "criteria"},
		{"phone without name", SearchCriteria{Phone: "0722123456"}, "nume"},
		{"order number without name", SearchCriteria{OrderNumber: "12345"}, "nume"},
		{"bad order number", SearchCriteria{OrderNumber: "12a45", FullName: "Popescu Ion"}, "numarComanda"},
		{"bad phone", SearchCriteria{Phone: "0622123456", FullName: "Popescu Ion"}, "telefon"},
		{"bad email", SearchCriteria{Email: "not-an-email"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.criteria)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestResolveEmailOnlySkipsNameFilter(t *testing.T) {
	platform := &fakePlatform{
		ordersByEmail: map[string][]shopify.Order{
			"ion@example.com": {
				billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -2)),
				billedOrder(2, "Altcineva Complet Diferit", testNow.AddDate(0, 0, -4)),
			},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{Email: "ion@example.com"})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	assert.Len(t, result.Orders, 2)
}

func TestResolveEmailOnlyNoOrders(t *testing.T) {
	resolver := newTestResolver(&fakePlatform{})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{Email: "ion@example.com"})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureNoOrdersForEmail, result.Failure.Code)
	assert.False(t, result.Failure.NeedsEmail)
}

func TestResolveByOrderNumberAuthorized(t *testing.T) {
	order := billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -3))
	resolver := newTestResolver(&fakePlatform{orderByNumber: &order})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "#MX1000",
		FullName:    "Popescu Ion",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, eligibility.StatusEligible, result.Orders[0].Eligibility.Status)
}

func TestResolveByOrderNumberPhoneAuthorizes(t *testing.T) {
	order := billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -3))
	order.Phone = "+40722123456"
	resolver := newTestResolver(&fakePlatform{orderByNumber: &order})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "1000",
		FullName:    "Georgescu Dan",
		Phone:       "0722123456",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	assert.Len(t, result.Orders, 1)
}

func TestResolveByOrderNumberIdentityMismatch(t *testing.T) {
	order := billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -3))
	resolver := newTestResolver(&fakePlatform{orderByNumber: &order})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "1000",
		FullName:    "Georgescu Dan",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureIdentityMismatch, result.Failure.Code)
	assert.True(t, result.Failure.NeedsEmail)
	// The failure message never names the actual owner.
	assert.NotContains(t, result.Failure.Message, "Popescu")
}

func TestResolveByOrderNumberNotFoundFallsBackToEmail(t *testing.T) {
	platform := &fakePlatform{
		ordersByEmail: map[string][]shopify.Order{
			"dan@example.com": {billedOrder(7, "Georgescu Dan", testNow.AddDate(0, 0, -1))},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "9999",
		FullName:    "Georgescu Dan",
		Email:       "dan@example.com",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	assert.Len(t, result.Orders, 1)
	assert.Equal(t, []string{"dan@example.com"}, platform.emailQueries)
}

func TestResolveByOrderNumberNotFoundNeedsEmail(t *testing.T) {
	resolver := newTestResolver(&fakePlatform{})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "9999",
		FullName:    "Georgescu Dan",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureOrderNotFound, result.Failure.Code)
	assert.True(t, result.Failure.NeedsEmail)
}

func TestResolveByPhoneFiltersByName(t *testing.T) {
	platform := &fakePlatform{
		customers: []shopify.Customer{{ID: 10}},
		ordersByCustomer: map[int64][]shopify.Order{
			10: {
				billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -2)),
				billedOrder(2, "Ionescu Maria", testNow.AddDate(0, 0, -3)),
			},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		Phone:    "0722123456",
		FullName: "Ion Popescu",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, int64(1), result.Orders[0].Order.ID)
}

func TestResolveByPhoneDeduplicatesAcrossCustomers(t *testing.T) {
	shared := billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -2))
	platform := &fakePlatform{
		customers: []shopify.Customer{
			{ID: 10, Email: "ion@example.com"},
			{ID: 11},
		},
		ordersByCustomer: map[int64][]shopify.Order{
			10: {shared},
			11: {shared},
		},
		ordersByEmail: map[string][]shopify.Order{
			"ion@example.com": {shared},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		Phone:    "0722123456",
		FullName: "Popescu Ion",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	assert.Len(t, result.Orders, 1)
}

func TestResolveByPhoneCutoffSplit(t *testing.T) {
	platform := &fakePlatform{
		customers: []shopify.Customer{{ID: 10}},
		ordersByCustomer: map[int64][]shopify.Order{
			10: {
				billedOrder(1, "Popescu Ion", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)),
				billedOrder(2, "Popescu Ion", time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)),
			},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		Phone:    "0722123456",
		FullName: "Popescu Ion",
	})
	require.NoError(t, err)
	require.Nil(t, result.Failure)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, int64(2), result.Orders[0].Order.ID)
}

func TestResolveByPhoneOnlyPreCutoffOrders(t *testing.T) {
	platform := &fakePlatform{
		customers: []shopify.Customer{{ID: 10}},
		ordersByCustomer: map[int64][]shopify.Order{
			10: {billedOrder(1, "Popescu Ion", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		Phone:    "0722123456",
		FullName: "Popescu Ion",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureBeforeCutoff, result.Failure.Code)
}

func TestResolveByPhoneNoMatchNeedsEmail(t *testing.T) {
	platform := &fakePlatform{
		customers: []shopify.Customer{{ID: 10}},
		ordersByCustomer: map[int64][]shopify.Order{
			10: {billedOrder(1, "Ionescu Maria", testNow.AddDate(0, 0, -2))},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		Phone:    "0722123456",
		FullName: "Popescu Ion",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailurePhoneNoMatch, result.Failure.Code)
	assert.True(t, result.Failure.NeedsEmail)
}

func TestResolvePlatformErrorIsNotTreatedAsNotFound(t *testing.T) {
	platformErr := errors.New("upstream timeout")
	resolver := newTestResolver(&fakePlatform{orderByNumberErr: platformErr})

	result, err := resolver.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "1000",
		FullName:    "Popescu Ion",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, platformErr)
	assert.Nil(t, result)
}

func TestResolveSortsEligibleFirst(t *testing.T) {
	platform := &fakePlatform{
		ordersByEmail: map[string][]shopify.Order{
			"ion@example.com": {
				billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -40)),
				billedOrder(2, "Popescu Ion", testNow.AddDate(0, 0, -2)),
				billedOrder(3, "Popescu Ion", testNow.AddDate(0, 0, -17)),
				billedOrder(4, "Popescu Ion", testNow.AddDate(0, 0, -5)),
			},
		},
	}
	resolver := newTestResolver(platform)

	result, err := resolver.Resolve(context.Background(), SearchCriteria{Email: "ion@example.com"})
	require.NoError(t, err)
	require.Len(t, result.Orders, 4)

	// Eligible orders first, relative order preserved inside each partition.
	assert.Equal(t, int64(2), result.Orders[0].Order.ID)
	assert.Equal(t, int64(4), result.Orders[1].Order.ID)
	assert.Equal(t, int64(1), result.Orders[2].Order.ID)
	assert.Equal(t, int64(3), result.Orders[3].Order.ID)
}

func TestResolveStrictGivenNameFlag(t *testing.T) {
	order := billedOrder(1, "Popescu Ion", testNow.AddDate(0, 0, -3))
	platform := &fakePlatform{orderByNumber: &order}

	strict := NewOrderResolutionService(platform, ResolutionConfig{StrictGivenName: true}, zap.NewNop())
	strict.now = func() time.Time { return testNow }

	result, err := strict.Resolve(context.Background(), SearchCriteria{
		OrderNumber: "1000",
		FullName:    "Popescu Maria",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, FailureIdentityMismatch, result.Failure.Code)
}
