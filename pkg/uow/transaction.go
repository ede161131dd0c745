package uow

import (
	"github.com/jackc/pgx/v5"
)

// Transaction отдаёт репозитории, работающие поверх одной pgx.Tx. Экземпляр репозитория создаётся один раз
// на транзакцию.
type Transaction struct {
	factories map[RepositoryName]RepositoryFactory
	created   map[RepositoryName]Repository
	tx        pgx.Tx
}

func NewTransaction(tx pgx.Tx, factories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		factories: factories,
		created:   make(map[RepositoryName]Repository, len(factories)),
		tx:        tx,
	}
}

// Get возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if repo, ok := t.created[name]; ok {
		return repo, nil
	}
	factory, ok := t.factories[name]
	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	repo := factory(t.tx)
	t.created[name] = repo
	return repo, nil
}

// GetAs возвращает репозиторий с именем name, приведённый к типу T.
// Ошибки: ErrRepositoryNotRegistered, ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
