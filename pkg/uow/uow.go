package uow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

// Beginner то, что умеет открывать транзакцию и при этом годится как DBTX (pgxpool.Pool).
type Beginner interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type UnitOfWork struct {
	conn         Beginner
	txOptions    pgx.TxOptions
	repositories map[RepositoryName]RepositoryFactory
}

type Option func(*UnitOfWork)

// WithIsoLevel задаёт уровень изоляции транзакций, открываемых в Do. По умолчанию - настройка сервера.
func WithIsoLevel(level pgx.TxIsoLevel) Option {
	return func(u *UnitOfWork) {
		u.txOptions.IsoLevel = level
	}
}

func NewUnitOfWork(conn Beginner, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register регистрирует фабрику репозитория. Повторная регистрация имени - ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет fn внутри транзакции. Транзакция фиксируется только если fn вернула nil; при ошибке или панике
// внутри fn всё откатывается.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return fmt.Errorf("[uow] begin: %w", txErr)
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanicInTransaction, p)
		}
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if fnErr := fn(ctx, NewTransaction(tx, u.repositories)); fnErr != nil {
		return fnErr
	}
	return tx.Commit(ctx) //nolint:wrapcheck
}

// GetRepository возвращает репозиторий вне транзакции или ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name, приведённый к типу T.
// Ошибки: ErrRepositoryNotRegistered, ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return r, nil
}
