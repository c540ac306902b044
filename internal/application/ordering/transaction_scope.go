package ordering

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/ordering"
	"github.com/storefront/backend/internal/domain/shopping"
)

// TransactionScope provides transactional access to the repositories touched
// by checkout. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction.
	// FindByIDForUpdate on this repository holds row locks until commit.
	ProductRepo() catalog.ProductRepository
	// CartRepo returns the cart repository scoped to the current transaction
	CartRepo() shopping.CartRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() ordering.OrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	productRepo catalog.ProductRepository
	cartRepo    shopping.CartRepository
	orderRepo   ordering.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	cartRepo shopping.CartRepository,
	orderRepo ordering.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() shopping.CartRepository {
	return s.cartRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository {
	return s.orderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
