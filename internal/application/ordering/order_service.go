package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService handles order queries and lifecycle transitions
type OrderService struct {
	orderRepo ordering.OrderRepository
	txScope   TransactionScope
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo ordering.OrderRepository,
	txScope TransactionScope,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		txScope:   txScope,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// GetOrder retrieves one of the user's orders. Another user's order is
// indistinguishable from a missing one.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders retrieves the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if filter.Status != "" {
		domainFilter.Filters = map[string]interface{}{"status": filter.Status}
	}

	page, err := s.orderRepo.FindByUserID(ctx, userID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(page.Items))
	for i := range page.Items {
		responses = append(responses, ToOrderResponse(&page.Items[i]))
	}

	return responses, page.Total, nil
}

// Cancel cancels one of the user's orders and restores the reserved stock.
// The status change and every stock restoration commit atomically.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	var cancelled *ordering.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Row lock on the order so a concurrent cancel or webhook sees
		// the committed status instead of racing the transition.
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return shared.ErrNotFound
		}

		if err := order.Cancel(); err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			product, err := repos.ProductRepo().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := product.RestoreStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
		}

		cancelled = order
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", cancelled.ID.String()),
		zap.String("user_id", userID.String()))
	s.publishEvents(ctx, cancelled)

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// Ship marks a paid order as shipped
func (s *OrderService) Ship(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var shipped *ordering.Order

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.Ship(); err != nil {
			return err
		}

		shipped = order
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, shipped)

	response := ToOrderResponse(shipped)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *ordering.Order) {
	if s.eventBus == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	order.ClearDomainEvents()
}
