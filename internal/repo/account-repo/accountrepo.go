package accountrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `
		INSERT INTO customers (name, email, document, birth_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, customer.Name, customer.Email, customer.Document, customer.BirthDate).
		Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		zap.L().Error("can't save customer", zap.Error(err))
		return nil, err
	}
	return customer, nil
}

func (r *Repository) CreateAccount(ctx context.Context, customerID int) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (customer_id)
		VALUES ($1)
		RETURNING number, customer_id, balance, limit_amount, opened_at
	`
	row := r.db.QueryRow(ctx, query, customerID)
	var account domain.Account
	err := row.Scan(&account.Number, &account.CustomerID, &account.Balance, &account.Limit, &account.OpenedAt)
	if err != nil {
		zap.L().Error("can't create account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) FindByNumber(ctx context.Context, number int) (*domain.Account, error) {
	query := `
        SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        WHERE number = $1
    `
	row := r.db.QueryRow(ctx, query, number)
	var account domain.Account
	err := row.Scan(&account.Number, &account.CustomerID, &account.Balance, &account.Limit, &account.OpenedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Account, error) {
	query := `
        SELECT number, customer_id, balance, limit_amount, opened_at
        FROM accounts
        ORDER BY number ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get accounts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(&account.Number, &account.CustomerID, &account.Balance, &account.Limit, &account.OpenedAt)
		if err != nil {
			zap.L().Error("can't scan account row", zap.Error(err))
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	var updated domain.Account
	query := `
		UPDATE accounts
		SET balance = $1, limit_amount = $2
		WHERE number = $3
		RETURNING number, customer_id, balance, limit_amount, opened_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query, account.Balance, account.Limit, account.Number)
		err := row.Scan(&updated.Number, &updated.CustomerID, &updated.Balance, &updated.Limit, &updated.OpenedAt)
		if err != nil {
			zap.L().Error("can't update account balance", zap.Error(err))
			return err
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &updated, nil
}
