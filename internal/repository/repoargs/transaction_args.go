package repoargs

import (
	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateTransaction struct {
	OrderID     *int64
	UserID      int64
	Amount      decimal.Decimal
	Status      domain.TransactionStatusType
	Type        domain.TransactionType
	Description string
	Reference   string
}

type UpdateTransactionStatus struct {
	ID   int64
	From domain.TransactionStatusType
	To   domain.TransactionStatusType
}
