package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок Postgres, которые имеют смысл для схемы заказов и кошельков.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// convertErr приводит ошибку pgx к доменной и добавляет контекст format.
//   - pgx.ErrNoRows -> domain.ErrRecordNotFound.
//   - нарушение уникальности (второй возврат по заказу и т.п.) -> domain.ErrDuplicateKey.
//   - нарушение внешнего ключа (несуществующий юзер или заказ) -> domain.ErrRecordNotFound.
//   - нарушение CHECK (отрицательный баланс или сумма) -> domain.ErrConstraintViolation.
//   - остальное -> domain.ErrUnknown с исходным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, pgErrType(err), err.Error())
}

func pgErrType(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return domain.ErrUnknown
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return domain.ErrDuplicateKey
	case foreignKeyViolationCode:
		return domain.ErrRecordNotFound
	case checkViolationCode:
		return domain.ErrConstraintViolation
	default:
		return domain.ErrUnknown
	}
}
