package shopify

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/maxari-shop/service-returns/internal/matching"
)

const resultPageLimit = "250"

// FindOrderByNumber looks up a single order by its merchant-facing number.
// The shop's own numbering convention is unknown, so the bare numeric key is
// tried together with the "#", "MX" and "#MX" prefixed variants. A nil order
// with a nil error means the order does not exist.
func (c *Client) FindOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	cleaned := matching.NormalizeOrderNumber(orderNumber)
	if !matching.IsValidOrderNumberFormat(cleaned) {
		return nil, fmt.Errorf("invalid order number format: %q", orderNumber)
	}

	searchPatterns := []string{
		cleaned,
		"#" + cleaned,
		"MX" + cleaned,
		"#MX" + cleaned,
	}

	for _, pattern := range searchPatterns {
		query := url.Values{}
		query.Set("name", pattern)
		query.Set("status", "any")

		var resp struct {
			Orders []Order `json:"orders"`
		}
		if err := c.get(ctx, "/orders.json", query, &resp); err != nil {
			return nil, fmt.Errorf("order lookup by number failed: %w", err)
		}

		if len(resp.Orders) > 0 {
			return &resp.Orders[0], nil
		}
	}

	return nil, nil
}

// FindCustomersByPhone resolves customer records by trying every phone
// variant, deduplicating by customer id. An empty slice with a nil error
// means no customer carries that number.
func (c *Client) FindCustomersByPhone(ctx context.Context, phoneVariants []string) ([]Customer, error) {
	if len(phoneVariants) == 0 {
		return nil, fmt.Errorf("no phone variants to search")
	}

	var customers []Customer
	seen := make(map[int64]struct{})
	var lastErr error

	for _, variant := range phoneVariants {
		query := url.Values{}
		query.Set("phone", variant)
		query.Set("limit", resultPageLimit)

		var resp struct {
			Customers []Customer `json:"customers"`
		}
		if err := c.get(ctx, "/customers.json", query, &resp); err != nil {
			// Another variant may still resolve; keep the failure in case
			// none does.
			c.logger.Warn("customer lookup failed for phone variant",
				zap.String("variant", variant),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		for _, customer := range resp.Customers {
			if _, ok := seen[customer.ID]; ok {
				continue
			}
			seen[customer.ID] = struct{}{}
			customers = append(customers, customer)
		}
	}

	if len(customers) == 0 && lastErr != nil {
		return nil, fmt.Errorf("customer lookup by phone failed: %w", lastErr)
	}

	return customers, nil
}

// FindOrdersByCustomerID fetches every order placed by the given customer.
func (c *Client) FindOrdersByCustomerID(ctx context.Context, customerID int64) ([]Order, error) {
	query := url.Values{}
	query.Set("customer_id", fmt.Sprintf("%d", customerID))
	query.Set("status", "any")
	query.Set("limit", resultPageLimit)

	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.get(ctx, "/orders.json", query, &resp); err != nil {
		return nil, fmt.Errorf("order lookup by customer failed: %w", err)
	}

	return resp.Orders, nil
}

// FindOrdersByEmail fetches every order placed with the given email address,
// most recent first.
func (c *Client) FindOrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	query := url.Values{}
	query.Set("email", strings.ToLower(strings.TrimSpace(email)))
	query.Set("status", "any")
	query.Set("limit", resultPageLimit)

	var resp struct {
		Orders []Order `json:"orders"`
	}
	if err := c.get(ctx, "/orders.json", query, &resp); err != nil {
		return nil, fmt.Errorf("order lookup by email failed: %w", err)
	}

	orders := resp.Orders
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}
