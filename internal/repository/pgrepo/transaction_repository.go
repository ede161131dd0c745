package pgrepo

import (
	"context"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/internal/repository/repoargs"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, created_at, updated_at, order_id, user_id, amount, status, type, description, reference`

type TransactionRepository struct {
	conn uow.DBTX
}

func NewTransactionRepository(conn uow.DBTX) *TransactionRepository {
	return &TransactionRepository{conn: conn}
}

// Create создает запись в журнале транзакций. Второй возврат по тому же заказу отклоняется уникальным индексом
// с ошибкой domain.ErrDuplicateKey.
func (t *TransactionRepository) Create(
	ctx context.Context,
	args repoargs.CreateTransaction,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx,
		`INSERT INTO transactions (order_id, user_id, amount, status, type, description, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+transactionColumns,
		args.OrderID, args.UserID, args.Amount, string(args.Status), string(args.Type), args.Description, args.Reference,
	)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating %s transaction for user %d", args.Type, args.UserID)
	}
	return tx, nil
}

// FindCompletedPaymentForUpdate находит проведённую оплату заказа и блокирует её строку до конца транзакции.
func (t *TransactionRepository) FindCompletedPaymentForUpdate(
	ctx context.Context,
	orderID int64,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE order_id = $1 AND type = 'order_payment' AND status = 'completed'
		ORDER BY id
		LIMIT 1
		FOR UPDATE`,
		orderID,
	)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "finding completed payment for order %d", orderID)
	}
	return tx, nil
}

// UpdateStatus меняет статус транзакции только из статуса args.From.
func (t *TransactionRepository) UpdateStatus(
	ctx context.Context,
	args repoargs.UpdateTransactionStatus,
) (*domain.Transaction, error) {
	row := t.conn.QueryRow(ctx,
		`UPDATE transactions SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING `+transactionColumns,
		args.ID, string(args.From), string(args.To),
	)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, convertErr(err, "updating transaction %d status %s -> %s", args.ID, args.From, args.To)
	}
	return tx, nil
}

func (t *TransactionRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	rows, err := t.conn.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting transactions by userID %d", userID)
	}
	txs, collectErr := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		tx, scanErr := scanTransaction(row)
		if scanErr != nil {
			return domain.Transaction{}, scanErr
		}
		return *tx, nil
	})
	if collectErr != nil {
		return nil, convertErr(collectErr, "getting transactions by userID %d", userID)
	}
	return txs, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		tx     domain.Transaction
		status string
		txType string
	)
	if err := row.Scan(
		&tx.ID,
		&tx.CreatedAt,
		&tx.UpdatedAt,
		&tx.OrderID,
		&tx.UserID,
		&tx.Amount,
		&status,
		&txType,
		&tx.Description,
		&tx.Reference,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	tx.Status = domain.TransactionStatusType(status)
	tx.Type = domain.TransactionType(txType)
	return &tx, nil
}
