package accountrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/pg"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func TestRepository_CreateCustomer(t *testing.T) {
	repo, mock, _ := NewMock(t)

	birthDate := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	createdAt := time.Now()

	tests := []struct {
		name      string
		customer  *domain.Customer
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates customer",
			customer: &domain.Customer{
				Name:      "Maria Silva",
				Email:     "maria@example.com",
				Document:  "52998224725",
				BirthDate: birthDate,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO customers (name, email, document, birth_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`)).
					WithArgs("Maria Silva", "maria@example.com", "52998224725", birthDate).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			customer: &domain.Customer{
				Name:      "Maria Silva",
				Email:     "maria@example.com",
				Document:  "52998224725",
				BirthDate: birthDate,
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO customers (name, email, document, birth_date)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`)).
					WithArgs("Maria Silva", "maria@example.com", "52998224725", birthDate).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.CreateCustomer(context.Background(), tt.customer)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, result.ID)
			}
		})
	}
}

func TestRepository_CreateAccount(t *testing.T) {
	repo, mock, _ := NewMock(t)

	openedAt := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Account number comes from the sequence",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO accounts (customer_id)
			VALUES ($1)
			RETURNING number, customer_id, balance, limit_amount, opened_at`)).
					WithArgs(1).
					WillReturnRows(pgxmock.NewRows([]string{"number", "customer_id", "balance", "limit_amount", "opened_at"}).
						AddRow(1001, 1, decimal.NewFromFloat(0.00), decimal.NewFromFloat(100.00), openedAt))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO accounts (customer_id)
			VALUES ($1)
			RETURNING number, customer_id, balance, limit_amount, opened_at`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.CreateAccount(context.Background(), 1)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1001, result.Number)
				assert.True(t, result.Balance.Equal(decimal.Zero))
				assert.True(t, result.Limit.Equal(decimal.NewFromInt(100)))
			}
		})
	}
}

func TestRepository_FindByNumber(t *testing.T) {
	repo, mock, _ := NewMock(t)

	openedAt := time.Now()

	tests := []struct {
		name      string
		number    int
		mockSetup func()
		expectErr bool
		found     bool
	}{
		{
			name:   "Existing account",
			number: 1001,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        WHERE number = $1`)).
					WithArgs(1001).
					WillReturnRows(pgxmock.NewRows([]string{"number", "customer_id", "balance", "limit_amount", "opened_at"}).
						AddRow(1001, 1, decimal.NewFromFloat(150.50), decimal.NewFromFloat(100.00), openedAt))
			},
			found: true,
		},
		{
			name:   "Missing account returns nil",
			number: 9999,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        WHERE number = $1`)).
					WithArgs(9999).
					WillReturnError(pgx.ErrNoRows)
			},
			found: false,
		},
		{
			name:   "Database error",
			number: 1001,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        WHERE number = $1`)).
					WithArgs(1001).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.FindByNumber(context.Background(), tt.number)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.found {
				assert.NotNil(t, result)
				assert.Equal(t, tt.number, result.Number)
			} else {
				assert.Nil(t, result)
			}
		})
	}
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock, _ := NewMock(t)

	openedAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        ORDER BY number ASC`)).
		WillReturnRows(pgxmock.NewRows([]string{"number", "customer_id", "balance", "limit_amount", "opened_at"}).
			AddRow(1001, 1, decimal.NewFromFloat(0.00), decimal.NewFromFloat(100.00), openedAt).
			AddRow(1002, 2, decimal.NewFromFloat(50.00), decimal.NewFromFloat(100.00), openedAt))

	accounts, err := repo.FindAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, 1001, accounts[0].Number)
	assert.Equal(t, 1002, accounts[1].Number)
}

func TestRepository_UpdateBalance(t *testing.T) {
	repo, mock, tx := NewMock(t)

	openedAt := time.Now()

	tests := []struct {
		name      string
		account   *domain.Account
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully updates balance and limit",
			account: &domain.Account{
				Number:  1001,
				Balance: decimal.NewFromFloat(0.00),
				Limit:   decimal.NewFromFloat(30.00),
			},
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE accounts
			SET balance = $1, limit_amount = $2
			WHERE number = $3
			RETURNING number, customer_id, balance, limit_amount, opened_at`)).
						WithArgs(decimal.NewFromFloat(0.00), decimal.NewFromFloat(30.00), 1001).
						WillReturnRows(pgxmock.NewRows([]string{"number", "customer_id", "balance", "limit_amount", "opened_at"}).
							AddRow(1001, 1, decimal.NewFromFloat(0.00), decimal.NewFromFloat(30.00), openedAt))
					return fn(ctx)
				})
			},
			expectErr: false,
		},
		{
			name: "Database error",
			account: &domain.Account{
				Number:  1001,
				Balance: decimal.NewFromFloat(0.00),
				Limit:   decimal.NewFromFloat(30.00),
			},
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE accounts
			SET balance = $1, limit_amount = $2
			WHERE number = $3
			RETURNING number, customer_id, balance, limit_amount, opened_at`)).
						WithArgs(decimal.NewFromFloat(0.00), decimal.NewFromFloat(30.00), 1001).
						WillReturnError(errors.New("database error"))
					return fn(ctx)
				})
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			result, err := repo.UpdateBalance(context.Background(), tt.account)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.True(t, result.Limit.Equal(decimal.NewFromInt(30)))
			}
		})
	}
}
