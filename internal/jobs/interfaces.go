package jobs

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/service"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/notify"
	"github.com/fsdevblog/bundle-reconciler/internal/transport/provider/client"
)

type ProviderClient interface {
	GetOrderStatus(ctx context.Context, reference string) (*client.Response, error)
}

type StatusResolver interface {
	Resolve(network, raw string) (domain.Outcome, bool)
}

type Publisher interface {
	PublishOrderOutcome(ctx context.Context, event notify.OrderOutcomeEvent) error
}

type ReconcileServicer interface {
	OrdersForReconciliation(ctx context.Context, afterID int64, limit uint, maxAttempts uint) ([]domain.Order, error)
	ApplyProviderOutcome(ctx context.Context, args service.ApplyOutcomeArgs) (*domain.Order, error)
	RecordSyncFailure(ctx context.Context, orderID int64) error
}

type StaleServicer interface {
	StaleOrders(
		ctx context.Context,
		networks []string,
		cutoff time.Time,
		afterID int64,
		limit uint,
	) ([]domain.Order, error)
	ForceComplete(ctx context.Context, orderID int64, expected domain.OrderStatusType) (*domain.Order, error)
}

// Job периодическая задача планировщика.
type Job interface {
	Name() string
	RunCycle(ctx context.Context) error
}
