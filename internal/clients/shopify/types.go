package shopify

import "time"

// Order is a raw order record as returned by the Shopify Admin API.
// Immutable once fetched; owned transiently by the resolution engine for the
// duration of one request.
type Order struct {
	ID                  int64          `json:"id"`
	Name                string         `json:"name"` // merchant-facing number, e.g. "#MX1001"
	Email               string         `json:"email"`
	Phone               string         `json:"phone"`
	BillingAddress      *Address       `json:"billing_address"`
	LineItems           []LineItem     `json:"line_items"`
	ShippingLines       []ShippingLine `json:"shipping_lines"`
	DiscountCodes       []DiscountCode `json:"discount_codes"`
	TotalDiscounts      string         `json:"total_discounts"`
	SubtotalPrice       string         `json:"subtotal_price"`
	TotalPrice          string         `json:"total_price"`
	TotalOutstanding    string         `json:"total_outstanding"`
	Currency            string         `json:"currency"`
	FinancialStatus     string         `json:"financial_status"`
	Gateway             string         `json:"gateway"`
	PaymentGatewayNames []string       `json:"payment_gateway_names"`
	CreatedAt           time.Time      `json:"created_at"`
}

// BillingName returns the billing name of the order, assembling it from the
// first/last name pair when the combined field is empty.
func (o *Order) BillingName() string {
	if o.BillingAddress == nil {
		return ""
	}
	if o.BillingAddress.Name != "" {
		return o.BillingAddress.Name
	}
	name := o.BillingAddress.FirstName + " " + o.BillingAddress.LastName
	if name == " " {
		return ""
	}
	return name
}

// Address is the billing address subset the engine needs.
type Address struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// LineItem is a purchased item on an order.
type LineItem struct {
	ID                  int64                `json:"id"`
	Title               string               `json:"title"`
	Quantity            int                  `json:"quantity"`
	Price               string               `json:"price"`
	SKU                 string               `json:"sku"`
	VariantID           int64                `json:"variant_id"`
	VariantTitle        string               `json:"variant_title"`
	DiscountAllocations []DiscountAllocation `json:"discount_allocations"`
}

// DiscountAllocation is the portion of an order-level discount applied to a
// single line item.
type DiscountAllocation struct {
	Amount                   string `json:"amount"`
	DiscountApplicationIndex int    `json:"discount_application_index"`
}

// DiscountCode is a discount code applied to the order.
type DiscountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

// ShippingLine is a shipping charge on an order.
type ShippingLine struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// Customer is a raw customer record as returned by the Shopify Admin API.
type Customer struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
