package transactionrepo

import (
	"context"

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

// Append inserts a ledger record. Records are never updated or deleted
// once written, apart from the notification stamp.
func (r *Repository) Append(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (kind, account_number, destination_number, pix_key_value, amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		row := r.db.QueryRow(ctx, query,
			transaction.Kind,
			transaction.AccountNumber,
			transaction.DestinationNumber,
			transaction.PixKeyValue,
			transaction.Amount,
			transaction.Description,
		)
		if err := row.Scan(&transaction.ID, &transaction.CreatedAt); err != nil {
			zap.L().Error("can't append transaction", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (r *Repository) FindByAccount(ctx context.Context, accountNumber int, limit int) ([]domain.Transaction, error) {
	query := `
        SELECT id, kind, account_number, destination_number, pix_key_value, amount, description, created_at, notified_at
        FROM transactions
        WHERE account_number = $1 OR destination_number = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, accountNumber, limit)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tr domain.Transaction
		err := rows.Scan(&tr.ID, &tr.Kind, &tr.AccountNumber, &tr.DestinationNumber, &tr.PixKeyValue,
			&tr.Amount, &tr.Description, &tr.CreatedAt, &tr.NotifiedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tr)
	}
	return transactions, nil
}

func (r *Repository) FindUnnotified(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
	query := `
        SELECT id, kind, account_number, destination_number, pix_key_value, amount, description, created_at, notified_at
        FROM transactions
        WHERE notified_at IS NULL
        ORDER BY created_at ASC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get transactions for notification", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tr domain.Transaction
		err := rows.Scan(&tr.ID, &tr.Kind, &tr.AccountNumber, &tr.DestinationNumber, &tr.PixKeyValue,
			&tr.Amount, &tr.Description, &tr.CreatedAt, &tr.NotifiedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row for notification", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, tr)
	}
	return transactions, nil
}

func (r *Repository) MarkNotified(ctx context.Context, id int) error {
	query := `
		UPDATE transactions
		SET notified_at = now()
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't mark transaction notified", zap.Error(err))
		return err
	}
	return nil
}
