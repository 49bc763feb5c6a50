package services

import (
	"strconv"
	"strings"

	"github.com/maxari-shop/service-returns/internal/clients/shopify"
	"github.com/maxari-shop/service-returns/internal/eligibility"
	"github.com/maxari-shop/service-returns/internal/matching"
)

// cardGateways are the payment gateway names treated as card payments. A card
// refund goes back to the card, so no IBAN is collected for these orders.
var cardGateways = map[string]struct{}{
	"shopify_payments": {},
	"stripe":           {},
	"card":             {},
	"credit_card":      {},
}

// OrderProduct is one returnable row of an order as shown to the customer.
type OrderProduct struct {
	ID            string  `json:"id"`
	Name          string  `json:"nume"`
	Quantity      int     `json:"cantitate"`
	UnitPrice     float64 `json:"pret"`
	OriginalPrice float64 `json:"pretInitial,omitempty"`
	Discount      float64 `json:"discount,omitempty"`
	SKU           string  `json:"sku,omitempty"`
	VariantID     string  `json:"variant_id,omitempty"`
	IsShipping    bool    `json:"esteTransport,omitempty"`
}

// OrderView is the customer-facing projection of a platform order.
type OrderView struct {
	ID              int64            `json:"id"`
	OrderNumber     string           `json:"numarComanda"`
	CustomerName    string           `json:"nume"`
	Email           string           `json:"email,omitempty"`
	CreatedAt       string           `json:"dataComanda"`
	Currency        string           `json:"moneda"`
	Total           float64          `json:"total"`
	WasPaidWithCard bool             `json:"platitCuCardul"`
	Products        []OrderProduct   `json:"produse"`
	Eligibility     eligibility.Info `json:"eligibility"`
}

// MapOrder projects a resolved platform order into the shape the return form
// consumes. Line items with an excluded SKU are dropped from the returnable
// set, per-unit prices are reconstructed from the discount allocations, and
// shipping charges are appended as additional rows.
func MapOrder(resolved ResolvedOrder, excludedSKUs map[string]struct{}) OrderView {
	order := resolved.Order

	products := make([]OrderProduct, 0, len(order.LineItems)+len(order.ShippingLines))
	for _, item := range order.LineItems {
		if _, excluded := excludedSKUs[strings.ToUpper(strings.TrimSpace(item.SKU))]; excluded && item.SKU != "" {
			continue
		}

		price := parseAmount(item.Price)
		discountPerUnit := 0.0
		if item.Quantity > 0 {
			total := 0.0
			for _, alloc := range item.DiscountAllocations {
				total += parseAmount(alloc.Amount)
			}
			discountPerUnit = total / float64(item.Quantity)
		}

		name := item.Title
		if item.VariantTitle != "" && item.VariantTitle != "Default Title" {
			name = name + " - " + item.VariantTitle
		}

		products = append(products, OrderProduct{
			ID:            strconv.FormatInt(item.ID, 10),
			Name:          name,
			Quantity:      item.Quantity,
			UnitPrice:     price - discountPerUnit,
			OriginalPrice: price,
			Discount:      discountPerUnit,
			SKU:           item.SKU,
			VariantID:     strconv.FormatInt(item.VariantID, 10),
		})
	}

	for _, line := range order.ShippingLines {
		price := parseAmount(line.Price)
		if price == 0 {
			continue
		}
		products = append(products, OrderProduct{
			ID:         strconv.FormatInt(line.ID, 10),
			Name:       line.Title,
			Quantity:   1,
			UnitPrice:  price,
			IsShipping: true,
		})
	}

	return OrderView{
		ID:              order.ID,
		OrderNumber:     matching.NormalizeOrderNumber(order.Name),
		CustomerName:    order.BillingName(),
		Email:           order.Email,
		CreatedAt:       order.CreatedAt.Format("2006-01-02"),
		Currency:        order.Currency,
		Total:           parseAmount(order.TotalPrice),
		WasPaidWithCard: wasPaidWithCard(order),
		Products:        products,
		Eligibility:     resolved.Eligibility,
	}
}

// MapOrders projects every resolved order, preserving their order.
func MapOrders(resolved []ResolvedOrder, excludedSKUs map[string]struct{}) []OrderView {
	views := make([]OrderView, 0, len(resolved))
	for _, r := range resolved {
		views = append(views, MapOrder(r, excludedSKUs))
	}
	return views
}

// wasPaidWithCard reports whether the refund can go back onto a card: a card
// gateway took the payment, the order is fully paid and nothing is
// outstanding.
func wasPaidWithCard(order shopify.Order) bool {
	if order.FinancialStatus != "paid" {
		return false
	}
	if parseAmount(order.TotalOutstanding) != 0 {
		return false
	}

	gateways := order.PaymentGatewayNames
	if len(gateways) == 0 && order.Gateway != "" {
		gateways = []string{order.Gateway}
	}
	for _, gateway := range gateways {
		if _, ok := cardGateways[strings.ToLower(strings.TrimSpace(gateway))]; ok {
			return true
		}
	}
	return false
}

func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}

// ExcludedSKUSet builds the lookup set used by MapOrder, uppercasing for
// case-insensitive comparison.
func ExcludedSKUSet(skus []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		sku = strings.ToUpper(strings.TrimSpace(sku))
		if sku == "" {
			continue
		}
		set[sku] = struct{}{}
	}
	return set
}
