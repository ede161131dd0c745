package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/shopspring/decimal"
)

type OrderServicer interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	AdminSetStatus(
		ctx context.Context,
		orderID int64,
		expected domain.OrderStatusType,
		target domain.OrderStatusType,
	) (*domain.Order, error)
}

type WalletServicer interface {
	Checkout(ctx context.Context, args service.CheckoutArgs) (*domain.Order, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

// JobTrigger запускает периодическую задачу вне расписания.
type JobTrigger interface {
	Trigger(name string) error
}
