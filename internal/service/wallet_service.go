package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type WalletService struct {
	uow      uow.UOW
	userRepo UserRepository
	txRepo   TransactionRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	txRepo, txRepoErr := uow.GetRepositoryAs[TransactionRepository](u, uow.RepositoryName(repoargs.TransactionRepoName))
	if txRepoErr != nil {
		return nil, txRepoErr
	}
	return &WalletService{
		uow:      u,
		userRepo: userRepo,
		txRepo:   txRepo,
	}, nil
}

type CheckoutArgs struct {
	UserID            int64
	Network           string
	BeneficiaryNumber string
	Amount            decimal.Decimal
	// ReferenceID идентификатор заказа у провайдера, если он уже известен.
	ReferenceID *string
}

// amountScale кол-во знаков после запятой в денежных колонках (NUMERIC(14,2)). Сумма с большей точностью
// округлялась бы в базе по-разному для баланса и для транзакции.
const amountScale = 2

// Checkout оформляет заказ с оплатой с кошелька.
//
// Алгоритм работы:
//  1. Списывает сумму с кошелька условным запросом. Если средств недостаточно - domain.ErrNotEnoughBalance.
//  2. Создает заказ в начальном для сети статусе.
//  3. Создает проведённую транзакцию оплаты заказа.
//
// Всё выполняется в одной транзакции, при любой ошибке ничего не сохраняется.
func (w *WalletService) Checkout(ctx context.Context, args CheckoutArgs) (*domain.Order, error) {
	if !args.Amount.IsPositive() || !args.Amount.Equal(args.Amount.Round(amountScale)) {
		return nil, fmt.Errorf("checkout: %w", ErrInvalidAmount)
	}

	var order *domain.Order
	txErr := w.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		txRepo, txRepoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if txRepoErr != nil {
			return txRepoErr //nolint:wrapcheck
		}

		if _, err := userRepo.DebitWallet(c, args.UserID, args.Amount); err != nil {
			return err //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.Create(c, repoargs.CreateOrder{
			UserID:            args.UserID,
			TotalAmount:       args.Amount,
			Status:            domain.InitialOrderStatus(args.Network),
			BeneficiaryNumber: args.BeneficiaryNumber,
			Network:           args.Network,
			ReferenceID:       args.ReferenceID,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		reference, refErr := uuid.NewV7()
		if refErr != nil {
			return fmt.Errorf("generating payment reference: %w", refErr)
		}
		orderID := order.ID
		_, paymentErr := txRepo.Create(c, repoargs.CreateTransaction{
			OrderID:     &orderID,
			UserID:      args.UserID,
			Amount:      args.Amount,
			Status:      domain.TransactionStatusCompleted,
			Type:        domain.TransactionTypeOrderPayment,
			Description: fmt.Sprintf("%s data bundle for %s", args.Network, args.BeneficiaryNumber),
			Reference:   reference.String(),
		})
		return paymentErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("checkout: %w", txErr)
	}
	return order, nil
}

// GetBalance возвращает текущий баланс кошелька юзера.
func (w *WalletService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := w.userRepo.FindByID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting balance: %w", err)
	}
	return user.WalletBalance, nil
}

// GetTransactions возвращает журнал транзакций юзера, новые сначала.
func (w *WalletService) GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	txs, err := w.txRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting transactions: %w", err)
	}
	return txs, nil
}
