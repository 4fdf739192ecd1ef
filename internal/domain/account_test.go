package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newAccount(balance, limit string) *Account {
	return &Account{
		Number:  1001,
		Balance: decimal.RequireFromString(balance),
		Limit:   decimal.RequireFromString(limit),
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name            string
		balance         string
		limit           string
		amount          string
		expectedError   error
		expectedBalance string
		expectedLimit   string
	}{
		{
			name:            "Deposit increases balance only",
			balance:         "10.00",
			limit:           "100.00",
			amount:          "5.50",
			expectedBalance: "15.50",
			expectedLimit:   "100.00",
		},
		{
			name:            "Deposit does not replenish limit",
			balance:         "0",
			limit:           "30.00",
			amount:          "10.00",
			expectedBalance: "10.00",
			expectedLimit:   "30.00",
		},
		{
			name:          "Zero amount",
			balance:       "10.00",
			limit:         "100.00",
			amount:        "0",
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			balance:       "10.00",
			limit:         "100.00",
			amount:        "-1.00",
			expectedError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newAccount(tt.balance, tt.limit)
			err := acc.Deposit(decimal.RequireFromString(tt.amount))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.True(t, acc.Balance.Equal(decimal.RequireFromString(tt.balance)))
				return
			}
			assert.NoError(t, err)
			assert.True(t, acc.Balance.Equal(decimal.RequireFromString(tt.expectedBalance)))
			assert.True(t, acc.Limit.Equal(decimal.RequireFromString(tt.expectedLimit)))
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name            string
		balance         string
		limit           string
		amount          string
		expectedError   error
		expectedBalance string
		expectedLimit   string
	}{
		{
			name:            "Withdraw within balance keeps limit",
			balance:         "100.00",
			limit:           "100.00",
			amount:          "40.00",
			expectedBalance: "60.00",
			expectedLimit:   "100.00",
		},
		{
			name:            "Withdraw dips into limit",
			balance:         "50.00",
			limit:           "100.00",
			amount:          "120.00",
			expectedBalance: "0",
			expectedLimit:   "30.00",
		},
		{
			name:            "Withdraw exactly available total",
			balance:         "50.00",
			limit:           "100.00",
			amount:          "150.00",
			expectedBalance: "0",
			expectedLimit:   "0",
		},
		{
			name:          "One cent over available total",
			balance:       "50.00",
			limit:         "100.00",
			amount:        "150.01",
			expectedError: ErrInsufficientFunds,
		},
		{
			name:          "Withdraw from empty account",
			balance:       "0",
			limit:         "100.00",
			amount:        "150.00",
			expectedError: ErrInsufficientFunds,
		},
		{
			name:          "Zero amount",
			balance:       "100.00",
			limit:         "100.00",
			amount:        "0",
			expectedError: ErrInvalidAmount,
		},
		{
			name:          "Negative amount",
			balance:       "100.00",
			limit:         "100.00",
			amount:        "-10.00",
			expectedError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newAccount(tt.balance, tt.limit)
			err := acc.Withdraw(decimal.RequireFromString(tt.amount))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.True(t, acc.Balance.Equal(decimal.RequireFromString(tt.balance)))
				assert.True(t, acc.Limit.Equal(decimal.RequireFromString(tt.limit)))
				return
			}
			assert.NoError(t, err)
			assert.True(t, acc.Balance.Equal(decimal.RequireFromString(tt.expectedBalance)))
			assert.True(t, acc.Limit.Equal(decimal.RequireFromString(tt.expectedLimit)))
		})
	}
}

// The scenario from the account rules: a fresh account with the default limit,
// a failed withdrawal, a deposit, then an overdraft withdrawal.
func TestWithdrawScenario(t *testing.T) {
	acc := newAccount("0", "100.00")

	err := acc.Withdraw(decimal.RequireFromString("150.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.Limit.Equal(decimal.RequireFromString("100.00")))

	assert.NoError(t, acc.Deposit(decimal.RequireFromString("50.00")))
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("50.00")))

	assert.NoError(t, acc.Withdraw(decimal.RequireFromString("120.00")))
	assert.True(t, acc.Balance.IsZero())
	assert.True(t, acc.Limit.Equal(decimal.RequireFromString("30.00")))

	assert.NoError(t, acc.Deposit(decimal.RequireFromString("10.00")))
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, acc.Limit.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, acc.AvailableTotal().Equal(decimal.RequireFromString("40.00")))
}

func TestWithdrawExactDecimalArithmetic(t *testing.T) {
	acc := newAccount("0", "0")
	cent := decimal.RequireFromString("0.01")
	for i := 0; i < 1000; i++ {
		assert.NoError(t, acc.Deposit(cent))
	}
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("10.00")))
	assert.NoError(t, acc.Withdraw(decimal.RequireFromString("10.00")))
	assert.True(t, acc.Balance.IsZero())
}

func TestCredit(t *testing.T) {
	acc := newAccount("10.00", "100.00")

	assert.NoError(t, acc.Credit(decimal.RequireFromString("250.00")))
	assert.True(t, acc.Balance.Equal(decimal.RequireFromString("260.00")))
	assert.True(t, acc.Limit.Equal(decimal.RequireFromString("100.00")))

	assert.ErrorIs(t, acc.Credit(decimal.Zero), ErrInvalidAmount)
}
