package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Username      string
	Role          UserRole
	WalletBalance decimal.Decimal
}

type Order struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	UserID            int64
	TotalAmount       decimal.Decimal
	Status            OrderStatusType
	BeneficiaryNumber string
	Network           string
	ReferenceID       *string
	APIStatus         *string
	SyncAttempts      uint
	LastSyncedAt      *time.Time
}

// IsStaleFor сообщает, подлежит ли заказ принудительному завершению: заказ открыт, его сеть в списке networks
// (без учёта регистра) и создан раньше cutoff.
func (o *Order) IsStaleFor(networks []string, cutoff time.Time) bool {
	if o.Status.IsTerminal() || !o.Status.IsValid() {
		return false
	}
	if !o.CreatedAt.Before(cutoff) {
		return false
	}
	network := NormalizeNetwork(o.Network)
	for _, n := range networks {
		if NormalizeNetwork(n) == network {
			return true
		}
	}
	return false
}

// Reference возвращает reference_id или пустую строку.
func (o *Order) Reference() string {
	if o.ReferenceID == nil {
		return ""
	}
	return *o.ReferenceID
}

type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OrderID     *int64
	UserID      int64
	Amount      decimal.Decimal
	Status      TransactionStatusType
	Type        TransactionType
	Description string
	Reference   string
}
