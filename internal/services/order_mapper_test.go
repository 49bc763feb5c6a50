package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxari-shop/service-returns/internal/clients/shopify"
)

func TestMapOrderDiscountArithmetic(t *testing.T) {
	resolved := ResolvedOrder{Order: shopify.Order{
		ID:        1,
		Name:      "#MX1001",
		CreatedAt: time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC),
		Currency:  "RON",
		LineItems: []shopify.LineItem{
			{
				ID:       11,
				Title:    "Rochie de vară",
				Quantity: 2,
				Price:    "100.00",
				DiscountAllocations: []shopify.DiscountAllocation{
					{Amount: "40.00"},
				},
			},
		},
	}}

	view := MapOrder(resolved, nil)

	require.Len(t, view.Products, 1)
	product := view.Products[0]
	assert.Equal(t, 100.00, product.OriginalPrice)
	assert.Equal(t, 20.00, product.Discount)
	assert.Equal(t, 80.00, product.UnitPrice)
	assert.Equal(t, "1001", view.OrderNumber)
}

func TestMapOrderAppendsShippingLines(t *testing.T) {
	resolved := ResolvedOrder{Order: shopify.Order{
		LineItems: []shopify.LineItem{
			{ID: 11, Title: "Produs", Quantity: 1, Price: "50.00"},
		},
		ShippingLines: []shopify.ShippingLine{
			{ID: 21, Title: "Curier standard", Price: "19.99"},
			{ID: 22, Title: "Transport gratuit", Price: "0.00"},
		},
	}}

	view := MapOrder(resolved, nil)

	require.Len(t, view.Products, 2)
	shipping := view.Products[1]
	assert.True(t, shipping.IsShipping)
	assert.Equal(t, "Curier standard", shipping.Name)
	assert.Equal(t, 19.99, shipping.UnitPrice)
}

func TestMapOrderExcludedSKUs(t *testing.T) {
	resolved := ResolvedOrder{Order: shopify.Order{
		LineItems: []shopify.LineItem{
			{ID: 11, Title: "Card cadou", Quantity: 1, Price: "100.00", SKU: "GIFT-01"},
			{ID: 12, Title: "Produs normal", Quantity: 1, Price: "50.00", SKU: "DRESS-01"},
		},
	}}

	view := MapOrder(resolved, ExcludedSKUSet([]string{"gift-01"}))

	require.Len(t, view.Products, 1)
	assert.Equal(t, "Produs normal", view.Products[0].Name)
}

func TestWasPaidWithCard(t *testing.T) {
	tests := []struct {
		name     string
		order    shopify.Order
		expected bool
	}{
		{
			"card gateway fully paid",
			shopify.Order{FinancialStatus: "paid", TotalOutstanding: "0.00", PaymentGatewayNames: []string{"shopify_payments"}},
			true,
		},
		{
			"cash on delivery",
			shopify.Order{FinancialStatus: "paid", TotalOutstanding: "0.00", PaymentGatewayNames: []string{"cash_on_delivery"}},
			false,
		},
		{
			"card but outstanding balance",
			shopify.Order{FinancialStatus: "paid", TotalOutstanding: "25.00", PaymentGatewayNames: []string{"stripe"}},
			false,
		},
		{
			"card but pending",
			shopify.Order{FinancialStatus: "pending", TotalOutstanding: "0.00", PaymentGatewayNames: []string{"stripe"}},
			false,
		},
		{
			"legacy gateway field",
			shopify.Order{FinancialStatus: "paid", TotalOutstanding: "0", Gateway: "card"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, wasPaidWithCard(tt.order))
		})
	}
}

func TestMapOrderVariantTitle(t *testing.T) {
	resolved := ResolvedOrder{Order: shopify.Order{
		LineItems: []shopify.LineItem{
			{ID: 1, Title: "Rochie", VariantTitle: "M / Roșu", Quantity: 1, Price: "10.00"},
			{ID: 2, Title: "Curea", VariantTitle: "Default Title", Quantity: 1, Price: "5.00"},
		},
	}}

	view := MapOrder(resolved, nil)
	require.Len(t, view.Products, 2)
	assert.Equal(t, "Rochie - M / Roșu", view.Products[0].Name)
	assert.Equal(t, "Curea", view.Products[1].Name)
}
