// Package shop manages the campus store: the product catalog and the
// orders placed against it.
package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuslink/platform/internal/app/alloc"
	"github.com/campuslink/platform/internal/app/domain/notification"
	"github.com/campuslink/platform/internal/app/domain/order"
	"github.com/campuslink/platform/internal/app/domain/product"
	"github.com/campuslink/platform/internal/app/storage"
	"github.com/campuslink/platform/internal/app/workflow"
	"github.com/campuslink/platform/pkg/logger"
)

// Service manages products and orders.
type Service struct {
	products storage.ProductStore
	orders   storage.OrderStore
	users    storage.UserStore
	notifier *workflow.Notifier

	productAllocator *alloc.Allocator
	orderAllocator   *alloc.Allocator
	log              *logger.Logger
}

// New constructs a shop service. notifier may be nil, in which case order
// status changes are persisted without side effects.
func New(products storage.ProductStore, orders storage.OrderStore, users storage.UserStore, notifier *workflow.Notifier, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("shop")
	}
	productSrc := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return products.ListProductIdentifiers(ctx)
	})
	orderSrc := alloc.SourceFunc(func(ctx context.Context) ([]int64, error) {
		return orders.ListOrderIdentifiers(ctx)
	})
	return &Service{
		products:         products,
		orders:           orders,
		users:            users,
		notifier:         notifier,
		productAllocator: alloc.New(productSrc, log),
		orderAllocator:   alloc.New(orderSrc, log),
		log:              log,
	}
}

// CreateProduct adds a product to the catalog under the smallest free
// identifier.
func (s *Service) CreateProduct(ctx context.Context, name, description string, priceCents int64, stock int, imageURL string) (product.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return product.Product{}, fmt.Errorf("name is required")
	}
	if priceCents < 0 {
		return product.Product{}, fmt.Errorf("price cannot be negative")
	}
	if stock < 0 {
		return product.Product{}, fmt.Errorf("stock cannot be negative")
	}

	var created product.Product
	_, err := s.productAllocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.products.CreateProduct(ctx, product.Product{
			Identifier:  identifier,
			Name:        name,
			Description: strings.TrimSpace(description),
			PriceCents:  priceCents,
			Stock:       stock,
			ImageURL:    strings.TrimSpace(imageURL),
		})
		return err
	})
	if err != nil {
		return product.Product{}, err
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("name", created.Name).
		Info("product created")
	return created, nil
}

// GetProduct retrieves a product by identifier.
func (s *Service) GetProduct(ctx context.Context, identifier int64) (product.Product, error) {
	return s.products.GetProduct(ctx, identifier)
}

// ListProducts returns the catalog ordered by identifier.
func (s *Service) ListProducts(ctx context.Context) ([]product.Product, error) {
	return s.products.ListProducts(ctx)
}

// UpdateProduct edits mutable fields. Nil pointers leave fields unchanged.
func (s *Service) UpdateProduct(ctx context.Context, identifier int64, name, description *string, priceCents *int64, stock *int, imageURL *string) (product.Product, error) {
	p, err := s.products.GetProduct(ctx, identifier)
	if err != nil {
		return product.Product{}, err
	}

	if name != nil {
		if trimmed := strings.TrimSpace(*name); trimmed != "" {
			p.Name = trimmed
		} else {
			return product.Product{}, fmt.Errorf("name cannot be empty")
		}
	}
	if description != nil {
		p.Description = strings.TrimSpace(*description)
	}
	if priceCents != nil {
		if *priceCents < 0 {
			return product.Product{}, fmt.Errorf("price cannot be negative")
		}
		p.PriceCents = *priceCents
	}
	if stock != nil {
		if *stock < 0 {
			return product.Product{}, fmt.Errorf("stock cannot be negative")
		}
		p.Stock = *stock
	}
	if imageURL != nil {
		p.ImageURL = strings.TrimSpace(*imageURL)
	}

	p, err = s.products.UpdateProduct(ctx, p)
	if err != nil {
		return product.Product{}, err
	}
	s.log.WithField("identifier", p.Identifier).Info("product updated")
	return p, nil
}

// DeleteProduct removes a product, freeing its identifier for reuse.
func (s *Service) DeleteProduct(ctx context.Context, identifier int64) error {
	if err := s.products.DeleteProduct(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("product deleted")
	return nil
}

// OrderLine is one requested product in a PlaceOrder call.
type OrderLine struct {
	ProductIdentifier int64
	Quantity          int
}

// PlaceOrder creates an order for a user. Unit prices and the total are
// read from the catalog at placement time, stock is checked per line, and
// the order starts pending.
func (s *Service) PlaceOrder(ctx context.Context, userIdentifier int64, lines []OrderLine, shippingAddress string) (order.Order, error) {
	if len(lines) == 0 {
		return order.Order{}, fmt.Errorf("order must contain at least one item")
	}

	u, err := s.users.GetUser(ctx, userIdentifier)
	if err != nil {
		return order.Order{}, fmt.Errorf("user lookup: %w", err)
	}

	items := make([]order.Item, 0, len(lines))
	var total int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return order.Order{}, fmt.Errorf("quantity must be positive for product %d", line.ProductIdentifier)
		}
		p, err := s.products.GetProduct(ctx, line.ProductIdentifier)
		if err != nil {
			return order.Order{}, fmt.Errorf("product %d lookup: %w", line.ProductIdentifier, err)
		}
		if p.Stock < line.Quantity {
			return order.Order{}, fmt.Errorf("product %d has %d in stock, %d requested", p.Identifier, p.Stock, line.Quantity)
		}
		items = append(items, order.Item{
			ProductIdentifier: p.Identifier,
			Quantity:          line.Quantity,
			UnitPriceCents:    p.PriceCents,
		})
		total += p.PriceCents * int64(line.Quantity)
	}

	var created order.Order
	_, err = s.orderAllocator.Allocate(ctx, func(ctx context.Context, identifier int64) error {
		var err error
		created, err = s.orders.CreateOrder(ctx, order.Order{
			Identifier:      identifier,
			UserIdentifier:  u.Identifier,
			Items:           items,
			TotalCents:      total,
			ContactEmail:    u.Email,
			ShippingAddress: strings.TrimSpace(shippingAddress),
			Status:          workflow.StatusPending,
		})
		return err
	})
	if err != nil {
		return order.Order{}, err
	}

	// Stock is decremented after the order commits. A failed decrement is
	// logged and reconciled manually rather than unwinding the order.
	for _, it := range items {
		p, err := s.products.GetProduct(ctx, it.ProductIdentifier)
		if err != nil {
			s.log.WithError(err).WithField("product_identifier", it.ProductIdentifier).Warn("stock decrement skipped")
			continue
		}
		p.Stock -= it.Quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		if _, err := s.products.UpdateProduct(ctx, p); err != nil {
			s.log.WithError(err).WithField("product_identifier", it.ProductIdentifier).Warn("stock decrement failed")
		}
	}

	s.log.WithField("identifier", created.Identifier).
		WithField("user_identifier", u.Identifier).
		WithField("total_cents", created.TotalCents).
		Info("order placed")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryOrder,
			EntityLabel:    "order",
			Identifier:     created.Identifier,
			Status:         created.Status,
			ContactEmail:   created.ContactEmail,
			UserIdentifier: created.UserIdentifier,
		})
	}
	return created, nil
}

// GetOrder retrieves an order by identifier.
func (s *Service) GetOrder(ctx context.Context, identifier int64) (order.Order, error) {
	return s.orders.GetOrder(ctx, identifier)
}

// ListOrders returns orders, optionally filtered by user.
func (s *Service) ListOrders(ctx context.Context, userIdentifier int64) ([]order.Order, error) {
	return s.orders.ListOrders(ctx, userIdentifier)
}

// SetOrderStatus moves an order through the fulfilment workflow. The
// transition is persisted first; notification side effects are best-effort.
func (s *Service) SetOrderStatus(ctx context.Context, identifier int64, status string) (order.Order, error) {
	normalized, err := workflow.OrderStatuses.Validate(status)
	if err != nil {
		return order.Order{}, err
	}

	o, err := s.orders.UpdateOrderStatus(ctx, identifier, normalized)
	if err != nil {
		return order.Order{}, err
	}

	s.log.WithField("identifier", o.Identifier).
		WithField("status", normalized).
		Info("order status changed")

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, workflow.Event{
			Category:       notification.CategoryOrder,
			EntityLabel:    "order",
			Identifier:     o.Identifier,
			Status:         o.Status,
			ContactEmail:   o.ContactEmail,
			UserIdentifier: o.UserIdentifier,
		})
	}
	return o, nil
}

// DeleteOrder removes an order, freeing its identifier for reuse.
func (s *Service) DeleteOrder(ctx context.Context, identifier int64) error {
	if err := s.orders.DeleteOrder(ctx, identifier); err != nil {
		return err
	}
	s.log.WithField("identifier", identifier).Info("order deleted")
	return nil
}
