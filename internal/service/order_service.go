package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/google/uuid"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

// OrdersForReconciliation возвращает страницу открытых заказов с reference_id, id которых больше afterID.
// maxAttempts == 0 - без ограничения по числу неудачных сверок.
func (o *OrderService) OrdersForReconciliation(
	ctx context.Context,
	afterID int64,
	limit uint,
	maxAttempts uint,
) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetForReconciliation(ctx, repoargs.ReconciliationPage{
		AfterID:     afterID,
		Limit:       limit,
		MaxAttempts: maxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("getting orders for reconciliation: %w", err)
	}
	return orders, nil
}

// StaleOrders возвращает страницу открытых заказов сетей networks, созданных раньше cutoff, id которых больше
// afterID.
func (o *OrderService) StaleOrders(
	ctx context.Context,
	networks []string,
	cutoff time.Time,
	afterID int64,
	limit uint,
) ([]domain.Order, error) {
	if len(networks) == 0 {
		return nil, nil
	}
	orders, err := o.orderRepo.GetStale(ctx, repoargs.StaleOrdersQuery{
		AfterID:  afterID,
		Networks: networks,
		Cutoff:   cutoff,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("getting stale orders: %w", err)
	}
	return orders, nil
}

type ApplyOutcomeArgs struct {
	OrderID int64
	// Expected статус заказа, который был прочитан перед запросом к провайдеру.
	Expected domain.OrderStatusType
	Outcome  domain.Outcome
	// APIStatus сырой статус провайдера, сохраняется в orders.api_status.
	APIStatus string
}

// ApplyProviderOutcome переводит заказ в конечный статус, сообщённый провайдером. Для failed и cancelled
// в той же транзакции отменяется оплата заказа и деньги возвращаются на кошелёк.
//
// Возвращает domain.ErrNotTerminal для незавершённого итога, *domain.TransitionError с domain.ErrStatusConflict,
// если статус заказа успел измениться, и domain.ErrTerminalStatus, если заказ уже завершён.
func (o *OrderService) ApplyProviderOutcome(ctx context.Context, args ApplyOutcomeArgs) (*domain.Order, error) {
	if !args.Outcome.IsTerminal() {
		return nil, fmt.Errorf("applying outcome %q to order %d: %w", args.Outcome, args.OrderID, domain.ErrNotTerminal)
	}
	apiStatus := args.APIStatus
	order, err := o.runTransition(ctx, transitionArgs{
		OrderID:   args.OrderID,
		From:      args.Expected,
		To:        args.Outcome.OrderStatus(),
		APIStatus: &apiStatus,
		Refund:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("applying provider outcome: %w", err)
	}
	return order, nil
}

// ForceComplete принудительно завершает зависший заказ. Журнал транзакций и кошелёк не затрагиваются.
func (o *OrderService) ForceComplete(
	ctx context.Context,
	orderID int64,
	expected domain.OrderStatusType,
) (*domain.Order, error) {
	order, err := o.runTransition(ctx, transitionArgs{
		OrderID: orderID,
		From:    expected,
		To:      domain.OrderStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("force completing order: %w", err)
	}
	return order, nil
}

// AdminSetStatus ручная смена статуса администратором. Перевод в failed или cancelled возвращает оплату так же,
// как при сверке с провайдером.
func (o *OrderService) AdminSetStatus(
	ctx context.Context,
	orderID int64,
	expected domain.OrderStatusType,
	target domain.OrderStatusType,
) (*domain.Order, error) {
	order, err := o.runTransition(ctx, transitionArgs{
		OrderID: orderID,
		From:    expected,
		To:      target,
		Refund:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("admin status change: %w", err)
	}
	return order, nil
}

// RecordSyncFailure отмечает неудачную попытку сверки заказа.
func (o *OrderService) RecordSyncFailure(ctx context.Context, orderID int64) error {
	if err := o.orderRepo.IncrementSyncAttempts(ctx, orderID); err != nil {
		return fmt.Errorf("recording sync failure: %w", err)
	}
	return nil
}

// GetByUserID Возвращает заказы от userID отсортированные по дате создания по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

type transitionArgs struct {
	OrderID   int64
	From      domain.OrderStatusType
	To        domain.OrderStatusType
	APIStatus *string
	// Refund включает возврат оплаты при переходе в failed/cancelled.
	Refund bool
}

func (o *OrderService) runTransition(ctx context.Context, args transitionArgs) (*domain.Order, error) {
	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var err error
		order, err = transition(c, tx, args)
		return err
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return order, nil
}

// transition единственное место, где меняется статус заказа. Работает внутри транзакции tx.
//
// Алгоритм работы:
//  1. Проверяет допустимость перехода (конечный статус не меняется).
//  2. Условно обновляет заказ: запись меняется, только если её текущий статус равен args.From.
//  3. Для failed/cancelled при args.Refund блокирует проведённую оплату заказа, переводит её в тот же статус,
//     создает транзакцию возврата и зачисляет сумму на кошелёк.
func transition(ctx context.Context, tx uow.TX, args transitionArgs) (*domain.Order, error) {
	if !domain.CanTransition(args.From, args.To) {
		errType := domain.ErrInvalidStatus
		if args.From.IsTerminal() {
			errType = domain.ErrTerminalStatus
		}
		return nil, domain.NewTransitionError(errType, args.OrderID, args.From, args.To)
	}

	orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if repoErr != nil {
		return nil, repoErr //nolint:wrapcheck
	}

	order, updErr := orderRepo.UpdateStatus(ctx, repoargs.UpdateOrderStatus{
		ID:        args.OrderID,
		From:      args.From,
		To:        args.To,
		APIStatus: args.APIStatus,
	})
	if updErr != nil {
		if !errors.Is(updErr, domain.ErrRecordNotFound) {
			return nil, updErr //nolint:wrapcheck
		}
		// Ничего не обновилось: либо заказа нет, либо его статус уже другой.
		if _, findErr := orderRepo.FindByID(ctx, args.OrderID); findErr != nil {
			return nil, findErr //nolint:wrapcheck
		}
		return nil, domain.NewTransitionError(domain.ErrStatusConflict, args.OrderID, args.From, args.To)
	}

	if args.Refund && args.To.RequiresRefund() {
		if err := refundPayment(ctx, tx, order); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// refundPayment возвращает оплату заказа. Если проведённой оплаты нет (заказ оплачен не с кошелька или уже
// возвращён), ничего не делает.
func refundPayment(ctx context.Context, tx uow.TX, order *domain.Order) error {
	txRepo, txRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
	if txRepoErr != nil {
		return txRepoErr //nolint:wrapcheck
	}
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return userRepoErr //nolint:wrapcheck
	}

	payment, findErr := txRepo.FindCompletedPaymentForUpdate(ctx, order.ID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil
		}
		return findErr //nolint:wrapcheck
	}

	if _, err := txRepo.UpdateStatus(ctx, repoargs.UpdateTransactionStatus{
		ID:   payment.ID,
		From: domain.TransactionStatusCompleted,
		To:   domain.PaymentStatusFor(order.Status),
	}); err != nil {
		return err //nolint:wrapcheck
	}

	reference, refErr := uuid.NewV7()
	if refErr != nil {
		return fmt.Errorf("generating refund reference: %w", refErr)
	}
	orderID := order.ID
	if _, err := txRepo.Create(ctx, repoargs.CreateTransaction{
		OrderID:     &orderID,
		UserID:      payment.UserID,
		Amount:      payment.Amount,
		Status:      domain.TransactionStatusCompleted,
		Type:        domain.TransactionTypeRefund,
		Description: fmt.Sprintf("Refund for %s order #%d", order.Status, order.ID),
		Reference:   reference.String(),
	}); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err := userRepo.CreditWallet(ctx, payment.UserID, payment.Amount); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}
