package service

import (
	"context"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	GetForReconciliation(ctx context.Context, page repoargs.ReconciliationPage) ([]domain.Order, error)
	GetStale(ctx context.Context, q repoargs.StaleOrdersQuery) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error)
	IncrementSyncAttempts(ctx context.Context, id int64) error
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error)
	FindCompletedPaymentForUpdate(ctx context.Context, orderID int64) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateTransactionStatus) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	CreditWallet(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error)
	DebitWallet(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error)
}
