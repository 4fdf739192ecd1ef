package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates that the amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds indicates that the amount exceeds balance plus limit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
)

// AvailableTotal is the maximum amount withdrawable in one operation.
// It is always computed from balance and limit, never stored.
func (a *Account) AvailableTotal() decimal.Decimal {
	return a.Balance.Add(a.Limit)
}

func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits the account. When the amount exceeds the cash balance the
// remainder is consumed from the limit: the balance drops to zero and the
// limit shrinks by the shortfall. The limit never goes negative and never
// replenishes on deposit.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(a.AvailableTotal()) {
		return ErrInsufficientFunds
	}
	if a.Balance.GreaterThanOrEqual(amount) {
		a.Balance = a.Balance.Sub(amount)
		return nil
	}
	shortfall := amount.Sub(a.Balance)
	a.Balance = decimal.Zero
	a.Limit = a.Limit.Sub(shortfall)
	return nil
}

// Credit adds funds to the balance on the receiving side of a transfer.
// The limit is left untouched.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}
