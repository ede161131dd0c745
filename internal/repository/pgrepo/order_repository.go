package pgrepo

import (
	"context"
	"strings"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, created_at, updated_at, user_id, total_amount, status, beneficiary_number, network,
	reference_id, api_status, sync_attempts, last_synced_at`

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

func (o *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, status, beneficiary_number, network, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns,
		args.UserID, args.TotalAmount, string(args.Status), args.BeneficiaryNumber, args.Network, args.ReferenceID,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", args.UserID)
	}
	return order, nil
}

func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order %d", id)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера, отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID %d", userID)
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting orders by userID %d", userID)
	}
	return orders, nil
}

// GetForReconciliation возвращает страницу открытых заказов с reference_id, у которых id больше page.AfterID.
// Заказы без reference_id сюда никогда не попадают. page.MaxAttempts == 0 - без ограничения по числу неудачных
// попыток.
func (o *OrderRepository) GetForReconciliation(
	ctx context.Context,
	page repoargs.ReconciliationPage,
) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE status IN ('pending', 'processing')
			AND reference_id IS NOT NULL
			AND id > $1
			AND ($3::int = 0 OR sync_attempts < $3::int)
		ORDER BY id
		LIMIT $2`,
		page.AfterID, int64(page.Limit), int64(page.MaxAttempts), //nolint:gosec
	)
	if err != nil {
		return nil, convertErr(err, "getting orders for reconciliation after %d", page.AfterID)
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting orders for reconciliation after %d", page.AfterID)
	}
	return orders, nil
}

// GetStale возвращает страницу открытых заказов указанных сетей, созданных раньше q.Cutoff, с id больше q.AfterID.
func (o *OrderRepository) GetStale(ctx context.Context, q repoargs.StaleOrdersQuery) ([]domain.Order, error) {
	networks := make([]string, len(q.Networks))
	for i, n := range q.Networks {
		networks[i] = strings.ToLower(strings.TrimSpace(n))
	}
	rows, err := o.conn.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		WHERE status IN ('pending', 'processing')
			AND lower(network) = ANY($1)
			AND created_at < $2
			AND id > $4
		ORDER BY id
		LIMIT $3`,
		networks, q.Cutoff, int64(q.Limit), q.AfterID, //nolint:gosec
	)
	if err != nil {
		return nil, convertErr(err, "getting stale orders")
	}
	orders, collectErr := collectOrders(rows)
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting stale orders")
	}
	return orders, nil
}

// UpdateStatus меняет статус заказа, только если текущий статус равен args.From. Если условие не выполнено
// (или заказа нет) - domain.ErrRecordNotFound.
func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`UPDATE orders
		SET status = $3, api_status = COALESCE($4, api_status), updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		args.ID, string(args.From), string(args.To), args.APIStatus,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating order %d status %s -> %s", args.ID, args.From, args.To)
	}
	return order, nil
}

// IncrementSyncAttempts отмечает неудачную попытку сверки заказа с провайдером.
func (o *OrderRepository) IncrementSyncAttempts(ctx context.Context, id int64) error {
	if _, err := o.conn.Exec(ctx,
		`UPDATE orders SET sync_attempts = sync_attempts + 1, last_synced_at = now() WHERE id = $1`,
		id,
	); err != nil {
		return convertErr(err, "incrementing sync attempts for order %d", id)
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) { //nolint:wrapcheck
		order, err := scanOrder(row)
		if err != nil {
			return domain.Order{}, err
		}
		return *order, nil
	})
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order    domain.Order
		status   string
		attempts int32
	)
	if err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.UserID,
		&order.TotalAmount,
		&status,
		&order.BeneficiaryNumber,
		&order.Network,
		&order.ReferenceID,
		&order.APIStatus,
		&attempts,
		&order.LastSyncedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	order.Status = domain.OrderStatusType(status)
	order.SyncAttempts = uint(max(attempts, 0)) //nolint:gosec
	return &order, nil
}
