// Package services contains the application services of the returns workflow.
package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maxari-shop/service-returns/internal/clients/shopify"
	"github.com/maxari-shop/service-returns/internal/eligibility"
	"github.com/maxari-shop/service-returns/internal/matching"
)

// PlatformClient is the commerce-platform lookup capability the resolution
// engine depends on. An empty result is not an error; errors mean the
// platform itself could not answer.
type PlatformClient interface {
	FindOrderByNumber(ctx context.Context, orderNumber string) (*shopify.Order, error)
	FindCustomersByPhone(ctx context.Context, phoneVariants []string) ([]shopify.Customer, error)
	FindOrdersByCustomerID(ctx context.Context, customerID int64) ([]shopify.Order, error)
	FindOrdersByEmail(ctx context.Context, email string) ([]shopify.Order, error)
}

// SearchCriteria is the customer-supplied search input. At least one of
// OrderNumber, Phone or Email must be set; FullName is required except for an
// email-only search.
type SearchCriteria struct {
	OrderNumber string `json:"numarComanda"`
	Phone       string `json:"telefon"`
	FullName    string `json:"nume"`
	Email       string `json:"email"`
}

type searchKind int

const (
	searchInvalid searchKind = iota
	searchEmailOnly
	searchByOrderNumber
	searchByPhone
)

// kind classifies the criteria into the mutually exclusive search branches.
// Order number wins over phone when both are present.
func (c SearchCriteria) kind() searchKind {
	switch {
	case c.OrderNumber != "":
		return searchByOrderNumber
	case c.Phone != "":
		return searchByPhone
	case c.Email != "":
		return searchEmailOnly
	default:
		return searchInvalid
	}
}

func (c SearchCriteria) trimmed() SearchCriteria {
	return SearchCriteria{
		OrderNumber: strings.TrimSpace(c.OrderNumber),
		Phone:       strings.TrimSpace(c.Phone),
		FullName:    strings.TrimSpace(c.FullName),
		Email:       strings.TrimSpace(c.Email),
	}
}

// ValidationError reports malformed or missing search input. No platform call
// is made once one is raised.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FailureCode identifies why a search produced no orders.
type FailureCode string

const (
	FailureOrderNotFound    FailureCode = "ORDER_NOT_FOUND"
	FailureIdentityMismatch FailureCode = "IDENTITY_MISMATCH"
	FailureNoOrdersForEmail FailureCode = "NO_ORDERS_FOR_EMAIL"
	FailurePhoneNoMatch     FailureCode = "PHONE_NO_MATCH"
	FailureBeforeCutoff     FailureCode = "BEFORE_CUTOFF"
)

// SearchFailure is a structured no-result outcome. NeedsEmail tells the
// calling form whether asking for an email address could unlock a fallback
// search.
type SearchFailure struct {
	Code       FailureCode `json:"code"`
	Message    string      `json:"message"`
	NeedsEmail bool        `json:"needsEmail"`
}

// ResolvedOrder is a platform order annotated with its return eligibility.
type ResolvedOrder struct {
	Order       shopify.Order    `json:"order"`
	Eligibility eligibility.Info `json:"eligibility"`
}

// SearchResult carries either the authorized order set or a failure, never
// both.
type SearchResult struct {
	Orders  []ResolvedOrder `json:"orders,omitempty"`
	Failure *SearchFailure  `json:"failure,omitempty"`
}

// ResolutionConfig tunes the engine's policy knobs.
type ResolutionConfig struct {
	// StrictGivenName tightens the name matcher so family-name agreement
	// alone no longer authorizes when both names carry given names.
	StrictGivenName bool
	// Policy is the eligibility window applied to every returned order.
	Policy eligibility.Policy
	// CutoffDate excludes phone-search results placed before it.
	CutoffDate time.Time
}

// DefaultCutoffDate is the launch date of the self-service flow. Orders placed
// before it go through manual support.
var DefaultCutoffDate = time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrderResolutionService resolves loosely-specified customer input to the set
// of orders that customer is authorized to see. It is stateless between
// calls; every invocation is an independent sequence of read-only platform
// queries.
type OrderResolutionService struct {
	platform PlatformClient
	matcher  matching.NameMatcher
	policy   eligibility.Policy
	cutoff   time.Time
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderResolutionService creates the engine. Zero-value config fields fall
// back to the store defaults.
func NewOrderResolutionService(platform PlatformClient, cfg ResolutionConfig, logger *zap.Logger) *OrderResolutionService {
	if cfg.Policy == (eligibility.Policy{}) {
		cfg.Policy = eligibility.DefaultPolicy()
	}
	if cfg.CutoffDate.IsZero() {
		cfg.CutoffDate = DefaultCutoffDate
	}
	return &OrderResolutionService{
		platform: platform,
		matcher:  matching.NameMatcher{StrictGivenName: cfg.StrictGivenName},
		policy:   cfg.Policy,
		cutoff:   cfg.CutoffDate,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve runs the branching search strategy. A non-nil error means the
// platform could not be reached and the caller should ask the customer to
// retry; a SearchFailure inside the result is a legitimate "no orders"
// outcome.
func (s *OrderResolutionService) Resolve(ctx context.Context, criteria SearchCriteria) (*SearchResult, error) {
	criteria = criteria.trimmed()

	if err := s.validate(criteria); err != nil {
		return nil, err
	}

	switch criteria.kind() {
	case searchEmailOnly:
		return s.resolveByEmail(ctx, criteria)
	case searchByOrderNumber:
		return s.resolveByOrderNumber(ctx, criteria)
	case searchByPhone:
		return s.resolveByPhone(ctx, criteria)
	default:
		return nil, &ValidationError{Field: "criteria", Message: "cel puțin unul dintre numărul comenzii, telefon sau email este obligatoriu"}
	}
}

func (s *OrderResolutionService) validate(c SearchCriteria) error {
	if c.OrderNumber == "" && c.Phone == "" && c.Email == "" {
		return &ValidationError{Field: "criteria", Message: "cel puțin unul dintre numărul comenzii, telefon sau email este obligatoriu"}
	}

	emailOnly := c.Email != "" && c.OrderNumber == "" && c.Phone == ""
	if !emailOnly && c.FullName == "" {
		return &ValidationError{Field: "nume", Message: "numele complet este obligatoriu"}
	}

	if c.OrderNumber != "" {
		if !matching.IsValidOrderNumberFormat(matching.NormalizeOrderNumber(c.OrderNumber)) {
			return &ValidationError{Field: "numarComanda", Message: "numărul comenzii este invalid"}
		}
	}
	if c.Phone != "" && !matching.IsValidRomanianPhone(c.Phone) {
		return &ValidationError{Field: "telefon", Message: "numărul de telefon este invalid"}
	}
	if c.Email != "" && !emailShape.MatchString(c.Email) {
		return &ValidationError{Field: "email", Message: "adresa de email este invalidă"}
	}
	return nil
}

// resolveByEmail is the email-only branch. Owning the inbox that placed the
// order is treated as owning the order, so no name filter is applied.
func (s *OrderResolutionService) resolveByEmail(ctx context.Context, criteria SearchCriteria) (*SearchResult, error) {
	orders, err := s.platform.FindOrdersByEmail(ctx, criteria.Email)
	if err != nil {
		return nil, fmt.Errorf("email search failed: %w", err)
	}

	if len(orders) == 0 {
		return &SearchResult{Failure: &SearchFailure{
			Code:    FailureNoOrdersForEmail,
			Message: "Nu am găsit comenzi pentru această adresă de email",
		}}, nil
	}

	return &SearchResult{Orders: s.annotate(orders)}, nil
}

func (s *OrderResolutionService) resolveByOrderNumber(ctx context.Context, criteria SearchCriteria) (*SearchResult, error) {
	order, err := s.platform.FindOrderByNumber(ctx, criteria.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("order number search failed: %w", err)
	}

	if order == nil {
		return s.emailFallback(ctx, criteria, SearchFailure{
			Code:    FailureOrderNotFound,
			Message: "Comanda nu a fost găsită",
		})
	}

	if !s.authorizeOrder(criteria, order) {
		s.logger.Info("order found but identity verification failed",
			zap.String("order_number", criteria.OrderNumber),
		)
		return s.emailFallback(ctx, criteria, SearchFailure{
			Code:    FailureIdentityMismatch,
			Message: "Comanda nu este asociată cu acest nume",
		})
	}

	return &SearchResult{Orders: s.annotate([]shopify.Order{*order})}, nil
}

// authorizeOrder decides whether the requester may view a single candidate
// order found by its number. Name agreement authorizes; failing that, a
// supplied phone that matches the order's phone authorizes. The failure
// message never echoes the order's actual owner.
func (s *OrderResolutionService) authorizeOrder(criteria SearchCriteria, order *shopify.Order) bool {
	if s.matcher.Match(criteria.FullName, order.BillingName()) {
		return true
	}

	if criteria.Phone != "" {
		if matching.PhonesMatch(criteria.Phone, order.Phone) {
			return true
		}
		if order.BillingAddress != nil && matching.PhonesMatch(criteria.Phone, order.BillingAddress.Phone) {
			return true
		}
	}

	return false
}

func (s *OrderResolutionService) resolveByPhone(ctx context.Context, criteria SearchCriteria) (*SearchResult, error) {
	variants := matching.ExpandPhoneVariants(criteria.Phone)

	customers, err := s.platform.FindCustomersByPhone(ctx, variants)
	if err != nil {
		return nil, fmt.Errorf("phone search failed: %w", err)
	}

	orders, err := s.fetchCustomerOrders(ctx, customers)
	if err != nil {
		return nil, err
	}

	// Hard filter: only orders whose billing name matches the input name are
	// ever shown on the phone path.
	var matched []shopify.Order
	for _, order := range orders {
		if s.matcher.Match(criteria.FullName, order.BillingName()) {
			matched = append(matched, order)
		}
	}

	var displayable []shopify.Order
	preCutoff := 0
	for _, order := range matched {
		if order.CreatedAt.Before(s.cutoff) {
			preCutoff++
			continue
		}
		displayable = append(displayable, order)
	}

	if len(displayable) > 0 {
		return &SearchResult{Orders: s.annotate(displayable)}, nil
	}

	if preCutoff > 0 {
		s.logger.Info("phone search matched only pre-cutoff orders",
			zap.Int("pre_cutoff_orders", preCutoff),
			zap.Time("cutoff", s.cutoff),
		)
		return &SearchResult{Failure: &SearchFailure{
			Code:    FailureBeforeCutoff,
			Message: "Comenzile găsite au fost plasate înainte de lansarea retururilor online. Vă rugăm să contactați suportul pentru a continua.",
		}}, nil
	}

	return s.emailFallback(ctx, criteria, SearchFailure{
		Code:    FailurePhoneNoMatch,
		Message: "Numărul de telefon nu este asociat cu acest nume",
	})
}

// fetchCustomerOrders fans out the per-customer lookups concurrently. Orders
// are fetched both by customer id and by the customer's email because the
// platform does not always link guest checkouts to the customer record.
func (s *OrderResolutionService) fetchCustomerOrders(ctx context.Context, customers []shopify.Customer) ([]shopify.Order, error) {
	var (
		mu     sync.Mutex
		seen   = make(map[int64]struct{})
		orders []shopify.Order
	)

	collect := func(batch []shopify.Order) {
		mu.Lock()
		defer mu.Unlock()
		for _, order := range batch {
			if _, ok := seen[order.ID]; ok {
				continue
			}
			seen[order.ID] = struct{}{}
			orders = append(orders, order)
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, customer := range customers {
		group.Go(func() error {
			batch, err := s.platform.FindOrdersByCustomerID(groupCtx, customer.ID)
			if err != nil {
				return fmt.Errorf("orders by customer %d failed: %w", customer.ID, err)
			}
			collect(batch)
			return nil
		})

		if customer.Email != "" {
			group.Go(func() error {
				batch, err := s.platform.FindOrdersByEmail(groupCtx, customer.Email)
				if err != nil {
					return fmt.Errorf("orders by customer email failed: %w", err)
				}
				collect(batch)
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// emailFallback degrades a failed order-number or phone search into an
// email-based search when an email was supplied. Without one, the original
// failure is returned with the needsEmail hint set.
func (s *OrderResolutionService) emailFallback(ctx context.Context, criteria SearchCriteria, failure SearchFailure) (*SearchResult, error) {
	if criteria.Email == "" {
		failure.NeedsEmail = true
		return &SearchResult{Failure: &failure}, nil
	}

	orders, err := s.platform.FindOrdersByEmail(ctx, criteria.Email)
	if err != nil {
		return nil, fmt.Errorf("email fallback failed: %w", err)
	}

	if len(orders) > 0 {
		return &SearchResult{Orders: s.annotate(orders)}, nil
	}

	return &SearchResult{Failure: &SearchFailure{
		Code:    FailureOrderNotFound,
		Message: "Comanda nu a fost găsită. Verificați datele introduse.",
	}}, nil
}

// annotate attaches eligibility to every order and partitions the set
// eligible-first, keeping the relative order inside each partition.
func (s *OrderResolutionService) annotate(orders []shopify.Order) []ResolvedOrder {
	now := s.now()

	resolved := make([]ResolvedOrder, 0, len(orders))
	for _, order := range orders {
		resolved = append(resolved, ResolvedOrder{
			Order:       order,
			Eligibility: eligibility.Calculate(order.CreatedAt, now, s.policy),
		})
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Eligibility.Status == eligibility.StatusEligible &&
			resolved[j].Eligibility.Status != eligibility.StatusEligible
	})

	return resolved
}
