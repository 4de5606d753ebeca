package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/logger"
	"github.com/storefront/backend/pkg/metrics"
)

// Pricing policy constants. Fixed by policy, not configuration.
const (
	taxRate           = 0.10
	shippingFlat      = 10.0
	freeShippingAbove = 100.0
)

// OrderService converts carts into immutable order snapshots and drives the
// order lifecycle.
type OrderService struct {
	orders   OrderRepo
	carts    CartRepo
	products ProductRepo
	users    UserRepo
	notifier Notifier
}

func NewOrderService(orders OrderRepo, carts CartRepo, products ProductRepo, users UserRepo, notifier Notifier) *OrderService {
	return &OrderService{orders: orders, carts: carts, products: products, users: users, notifier: notifier}
}

type PlaceOrderInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
}

// Place converts the user's cart into an order.
//
// Each line item's stock is claimed with an atomic conditional decrement
// (subtract only while enough units remain), so two concurrent placements
// can never jointly oversell a product. When a later item's claim fails,
// the claims already made are released again before the error returns; the
// release is best-effort and logged when it fails.
//
// Snapshots carry the cart's captured unit price, not the live product
// price. The cart is emptied, not deleted, once the order is stored.
func (s *OrderService) Place(ctx context.Context, principal authz.Principal, in PlaceOrderInput) (*models.Order, error) {
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, apperr.New(apperr.InvalidInput, "Invalid payment method %q", in.PaymentMethod)
	}

	cart, err := s.carts.FindByUser(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.InvalidInput, "Cart is empty")
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.New(apperr.InvalidInput, "Cart is empty")
	}

	// Claim stock item by item, building the snapshot as we go. Everything
	// in snapshots is already claimed and must be released on failure.
	snapshots := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		p, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			s.releaseStock(snapshots)
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperr.New(apperr.InvalidInput, "A product in your cart no longer exists")
			}
			return nil, err
		}
		if p.Stock < item.Quantity {
			s.releaseStock(snapshots)
			return nil, apperr.New(apperr.InvalidInput,
				"Insufficient stock for %s. Only %d available.", p.Name, p.Stock)
		}

		if err := s.products.DecrementStock(ctx, p.ID, item.Quantity); err != nil {
			s.releaseStock(snapshots)
			if errors.Is(err, repositories.ErrInsufficientStock) {
				// Another order claimed the remaining units between the
				// read above and the conditional decrement.
				return nil, apperr.New(apperr.InvalidInput,
					"Insufficient stock for %s.", p.Name)
			}
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperr.New(apperr.InvalidInput, "A product in your cart no longer exists")
			}
			return nil, err
		}

		snapshots = append(snapshots, models.OrderItem{
			Product:  p.ID,
			Name:     p.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    p.FirstImageURL(),
		})
	}

	itemsPrice := 0.0
	for _, snap := range snapshots {
		itemsPrice += snap.Price * float64(snap.Quantity)
	}
	taxPrice := round2(itemsPrice * taxRate)
	shippingPrice := shippingFlat
	if itemsPrice > freeShippingAbove {
		shippingPrice = 0
	}
	totalPrice := round2(itemsPrice + taxPrice + shippingPrice)

	order := &models.Order{
		User:            principal.ID,
		Items:           snapshots,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      round2(itemsPrice),
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          models.StatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.releaseStock(snapshots)
		return nil, err
	}

	// The order is now the source of truth. Failures past this point are
	// logged, never surfaced: the placement has succeeded.
	cart.Items = []models.CartItem{}
	cart.RecalculateTotals()
	if err := s.carts.Save(ctx, cart); err != nil {
		logger.L.Error("cart empty after order failed",
			"order", order.ID.Hex(), "user", principal.ID.Hex(), "error", err)
	}

	invalidateProductCache(productIDs(snapshots)...)
	metrics.OrdersPlaced.Inc()

	if u, err := s.users.FindByID(ctx, principal.ID); err == nil {
		order.UserInfo = summaryRef(u)
		s.notifier.OrderConfirmation(*u, *order)
	} else {
		logger.L.Warn("order confirmation skipped, user lookup failed",
			"order", order.ID.Hex(), "error", err)
	}

	return order, nil
}

// releaseStock returns already-claimed units after a mid-loop failure. Like
// cancellation it is per-item and best-effort.
func (s *OrderService) releaseStock(claimed []models.OrderItem) {
	for _, snap := range claimed {
		if err := s.products.RestoreStock(context.Background(), snap.Product, snap.Quantity); err != nil {
			logger.L.Error("stock release failed",
				"product", snap.Product.Hex(), "quantity", snap.Quantity, "error", err)
		}
	}
}

func productIDs(items []models.OrderItem) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Product)
	}
	return ids
}

func summaryRef(u *models.User) *models.UserSummary {
	sum := u.Summary()
	return &sum
}

// Get returns one order. Owner-or-admin.
func (s *OrderService) Get(ctx context.Context, principal authz.Principal, id primitive.ObjectID) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found")
		}
		return nil, err
	}
	if err := authz.CanAccess(principal, o.User, "Not authorized to access this order"); err != nil {
		return nil, err
	}
	s.attachUser(ctx, o)
	return o, nil
}

// MyOrders returns the acting user's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// All returns every order. Admin-only, enforced at the route.
func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.attachUser(ctx, &orders[i])
	}
	return orders, nil
}

// MarkPaid records a payment result, stamps paidAt, and advances a Pending
// order to Processing. Owner-or-admin.
func (s *OrderService) MarkPaid(ctx context.Context, principal authz.Principal, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found")
		}
		return nil, err
	}
	if err := authz.CanAccess(principal, o.User, "Not authorized to access this order"); err != nil {
		return nil, err
	}
	if o.IsPaid {
		return nil, apperr.New(apperr.InvalidState, "Order is already paid")
	}
	if o.Status == models.StatusCancelled {
		return nil, apperr.New(apperr.InvalidState, "Cannot pay for a cancelled order")
	}

	now := timeNow()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &result
	if o.Status == models.StatusPending {
		o.Status = models.StatusProcessing
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.attachUser(ctx, o)
	return o, nil
}

type UpdateStatusInput struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateStatus moves the order along its lifecycle. Admin-only, enforced at
// the route. Delivered additionally stamps the delivery fields; Cancelled
// restores stock like Cancel does. The customer gets a status email
// best-effort.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found")
		}
		return nil, err
	}
	if err := o.Transition(next); err != nil {
		return nil, err
	}

	if next == models.StatusCancelled {
		s.restoreOrderStock(ctx, o)
		metrics.OrdersCancelled.Inc()
		invalidateProductCache(productIDs(o.Items)...)
	}
	o.Status = next
	if next == models.StatusDelivered {
		now := timeNow()
		o.IsDelivered = true
		o.DeliveredAt = &now
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if u, err := s.users.FindByID(ctx, o.User); err == nil {
		o.UserInfo = summaryRef(u)
		s.notifier.OrderStatusUpdate(*u, *o)
	}
	return o, nil
}

// Cancel cancels a Pending or Processing order and restores every item's
// stock, the inverse of the claims made at placement. Owner-or-admin.
func (s *OrderService) Cancel(ctx context.Context, principal authz.Principal, id primitive.ObjectID) (*models.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Order not found")
		}
		return nil, err
	}
	if err := authz.CanAccess(principal, o.User, "Not authorized to access this order"); err != nil {
		return nil, err
	}
	if err := o.Transition(models.StatusCancelled); err != nil {
		return nil, err
	}

	s.restoreOrderStock(ctx, o)
	o.Status = models.StatusCancelled
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersCancelled.Inc()
	invalidateProductCache(productIDs(o.Items)...)

	if u, err := s.users.FindByID(ctx, o.User); err == nil {
		o.UserInfo = summaryRef(u)
		s.notifier.OrderStatusUpdate(*u, *o)
	}
	return o, nil
}

// restoreOrderStock returns an order's units to the catalogue, item by
// item. Failures are logged, not surfaced: the cancellation itself must
// still go through.
func (s *OrderService) restoreOrderStock(ctx context.Context, o *models.Order) {
	for _, item := range o.Items {
		if err := s.products.RestoreStock(ctx, item.Product, item.Quantity); err != nil {
			logger.L.Error("stock restore failed",
				"order", o.ID.Hex(), "product", item.Product.Hex(),
				"quantity", item.Quantity, "error", err)
		}
	}
}

func (s *OrderService) attachUser(ctx context.Context, o *models.Order) {
	if u, err := s.users.FindByID(ctx, o.User); err == nil {
		o.UserInfo = summaryRef(u)
	}
}
