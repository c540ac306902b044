package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutConfig carries the URLs the payment page returns the customer to
type CheckoutConfig struct {
	SuccessURL string
	CancelURL  string
}

// CheckoutInput identifies the shopper and optionally overrides the
// configured return URLs for this payment session.
type CheckoutInput struct {
	UserID     uuid.UUID
	SuccessURL string
	CancelURL  string
}

// CheckoutService orchestrates the conversion of a cart into a pending
// order. Stock validation, order creation, stock decrement and cart
// clearing happen in one database transaction; the payment session is
// created after commit.
type CheckoutService struct {
	txScope  TransactionScope
	userRepo identity.UserRepository
	gateway  payment.Gateway
	eventBus shared.EventPublisher
	config   CheckoutConfig
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	txScope TransactionScope,
	userRepo identity.UserRepository,
	gateway payment.Gateway,
	eventBus shared.EventPublisher,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txScope:  txScope,
		userRepo: userRepo,
		gateway:  gateway,
		eventBus: eventBus,
		config:   config,
		logger:   logger,
	}
}

// Checkout converts the user's cart into a pending order and opens a
// payment session. When two checkouts race over the last units of a
// product, the row locks serialize them and the second fails with
// INSUFFICIENT_STOCK.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResponse, error) {
	userID := input.UserID
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var order *ordering.Order

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		cart, err := repos.CartRepo().FindByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if cart.IsEmpty() {
			return shared.ErrEmptyCart
		}

		// Lock product rows in deterministic ID order so concurrent
		// checkouts over the same products cannot deadlock.
		productIDs := make([]uuid.UUID, 0, len(cart.Items))
		for i := range cart.Items {
			productIDs = append(productIDs, cart.Items[i].ProductID)
		}
		sort.Slice(productIDs, func(i, j int) bool {
			return productIDs[i].String() < productIDs[j].String()
		})

		products := make(map[uuid.UUID]*catalog.Product, len(productIDs))
		for _, id := range productIDs {
			product, err := repos.ProductRepo().FindByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			products[id] = product
		}

		lines := make([]ordering.NewOrderItemInput, 0, len(cart.Items))
		for i := range cart.Items {
			item := &cart.Items[i]
			product := products[item.ProductID]

			if !product.IsActive() {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Product %q is no longer available", product.Name))
			}
			if !product.HasStock(item.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %q: %d requested, %d available",
						product.Name, item.Quantity, product.Stock))
			}

			lines = append(lines, ordering.NewOrderItemInput{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
			})
		}

		order, err = ordering.NewOrder(userID, lines)
		if err != nil {
			return err
		}

		for i := range cart.Items {
			item := &cart.Items[i]
			product := products[item.ProductID]
			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		cart.Clear()
		return repos.CartRepo().Save(ctx, cart)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	successURL := input.SuccessURL
	if successURL == "" {
		successURL = s.config.SuccessURL
	}
	cancelURL := input.CancelURL
	if cancelURL == "" {
		cancelURL = s.config.CancelURL
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutSessionInput{
		OrderID:       order.ID,
		CustomerEmail: user.Email,
		LineItems:     checkoutLineItems(order),
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
	})
	if err != nil {
		// The order is committed and stays pending; the user can retry
		// payment or cancel to restore stock.
		s.logger.Error("payment session creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, shared.ErrGateway
	}

	response := &CheckoutResponse{
		Order:       ToOrderResponse(order),
		RedirectURL: session.RedirectURL,
	}
	return response, nil
}

func checkoutLineItems(order *ordering.Order) []payment.CheckoutLineItem {
	items := make([]payment.CheckoutLineItem, 0, len(order.Items))
	for i := range order.Items {
		line := &order.Items[i]
		items = append(items, payment.CheckoutLineItem{
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			UnitPrice: line.GetPriceAtPurchaseMoney(),
		})
	}
	return items
}

func (s *CheckoutService) publishEvents(ctx context.Context, order *ordering.Order) {
	if s.eventBus == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
