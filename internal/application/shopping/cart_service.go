package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
)

// CartService handles cart operations for a user. Every method takes the
// acting user's ID explicitly; carts are never resolved from ambient state.
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	eventBus    shared.EventPublisher
}

// NewCartService creates a new CartService
func NewCartService(
	cartRepo shopping.CartRepository,
	productRepo catalog.ProductRepository,
	eventBus shared.EventPublisher,
) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		eventBus:    eventBus,
	}
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, _, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, cart)
}

// AddItem adds a product to the user's cart, merging with an existing line
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart, _, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.AddItem(product.ID, req.Quantity, product.Stock); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cart)

	return s.toResponse(ctx, cart)
}

// UpdateItem sets the quantity of an existing cart line
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateItemQuantity(product.ID, req.Quantity, product.Stock); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, cart)
}

// RemoveItem removes a product line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, cart)

	return s.toResponse(ctx, cart)
}

// toResponse loads current product data for the cart's lines
func (s *CartService) toResponse(ctx context.Context, cart *shopping.Cart) (*CartResponse, error) {
	productIDs := make([]uuid.UUID, 0, len(cart.Items))
	for i := range cart.Items {
		productIDs = append(productIDs, cart.Items[i].ProductID)
	}

	products := make(map[uuid.UUID]*catalog.Product, len(productIDs))
	if len(productIDs) > 0 {
		found, err := s.productRepo.FindByIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		for i := range found {
			products[found[i].ID] = &found[i]
		}
	}

	response := ToCartResponse(cart, products)
	return &response, nil
}

func (s *CartService) publishEvents(ctx context.Context, cart *shopping.Cart) {
	if s.eventBus == nil {
		return
	}
	for _, event := range cart.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	cart.ClearDomainEvents()
}
