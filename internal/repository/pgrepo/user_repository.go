package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/fsdevblog/bundle-reconciler/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, username, role, wallet_balance`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user %d", id)
	}
	return user, nil
}

// CreditWallet зачисляет amount на кошелёк юзера.
func (u *UserRepository) CreditWallet(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, amount,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "crediting wallet of user %d", userID)
	}
	return user, nil
}

// DebitWallet списывает amount с кошелька юзера одним условным запросом. Если средств недостаточно,
// возвращается domain.ErrNotEnoughBalance, если юзера нет - domain.ErrRecordNotFound. Баланс в обоих
// случаях не меняется.
func (u *UserRepository) DebitWallet(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx,
		`UPDATE users SET wallet_balance = wallet_balance - $2, updated_at = now()
		WHERE id = $1 AND wallet_balance >= $2
		RETURNING `+userColumns,
		userID, amount,
	)
	user, err := scanUser(row)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "debiting wallet of user %d", userID)
	}

	// ни одной строки: либо юзера нет, либо не хватает средств.
	exists, existsErr := u.exists(ctx, userID)
	if existsErr != nil {
		return nil, existsErr
	}
	if !exists {
		return nil, fmt.Errorf("[repository/debiting wallet of user %d] %w", userID, domain.ErrRecordNotFound)
	}
	return nil, fmt.Errorf("[repository/debiting wallet of user %d] %w", userID, domain.ErrNotEnoughBalance)
}

func (u *UserRepository) exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	row := u.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID)
	if err := row.Scan(&exists); err != nil {
		return false, convertErr(err, "checking user %d", userID)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&role,
		&user.WalletBalance,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	user.Role = domain.UserRole(role)
	return &user, nil
}
