package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrConstraintViolation = errors.New("constraint violation")

	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrStatusConflict   = errors.New("order status conflict")
	ErrTerminalStatus   = errors.New("order is in terminal status")
	ErrNotTerminal      = errors.New("outcome is not terminal")
	ErrInvalidStatus    = errors.New("invalid order status")
)

// TransitionError перехода заказа from -> to не случилось: либо текущий статус уже не from, либо переход запрещён.
type TransitionError struct {
	Err     error
	OrderID int64
	From    OrderStatusType
	To      OrderStatusType
}

func NewTransitionError(err error, orderID int64, from, to OrderStatusType) error {
	return &TransitionError{Err: err, OrderID: orderID, From: from, To: to}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order %d: transition %s -> %s: %s", e.OrderID, e.From, e.To, e.Err.Error())
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
