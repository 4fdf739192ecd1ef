package pixkeyrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, key *domain.PixKey) (*domain.PixKey, error) {
	query := `
		INSERT INTO pix_keys (account_number, type, value, active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, active, created_at
	`
	err := r.db.QueryRow(ctx, query, key.AccountNumber, key.Type, key.Value).
		Scan(&key.ID, &key.Active, &key.CreatedAt)
	if err != nil {
		zap.L().Error("can't save pix key", zap.Error(err))
		return nil, err
	}
	return key, nil
}

func (r *Repository) FindActiveByValue(ctx context.Context, value string) (*domain.PixKey, error) {
	query := `
        SELECT id, account_number, type, value, active, created_at
        FROM pix_keys
        WHERE value = $1 AND active
    `
	row := r.db.QueryRow(ctx, query, value)
	var key domain.PixKey
	err := row.Scan(&key.ID, &key.AccountNumber, &key.Type, &key.Value, &key.Active, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find pix key by value", zap.Error(err))
		return nil, err
	}
	return &key, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.PixKey, error) {
	query := `
        SELECT id, account_number, type, value, active, created_at
        FROM pix_keys
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var key domain.PixKey
	err := row.Scan(&key.ID, &key.AccountNumber, &key.Type, &key.Value, &key.Active, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find pix key", zap.Error(err))
		return nil, err
	}
	return &key, nil
}

func (r *Repository) FindByAccount(ctx context.Context, accountNumber int) ([]domain.PixKey, error) {
	query := `
        SELECT id, account_number, type, value, active, created_at
        FROM pix_keys
        WHERE account_number = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, accountNumber)
	if err != nil {
		zap.L().Error("can't get pix keys", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var keys []domain.PixKey
	for rows.Next() {
		var key domain.PixKey
		err := rows.Scan(&key.ID, &key.AccountNumber, &key.Type, &key.Value, &key.Active, &key.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan pix key row", zap.Error(err))
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// FindPrincipal returns the most recently created active key of the account.
// Ties on created_at are broken by id so the choice is deterministic.
func (r *Repository) FindPrincipal(ctx context.Context, accountNumber int) (*domain.PixKey, error) {
	query := `
        SELECT id, account_number, type, value, active, created_at
        FROM pix_keys
        WHERE account_number = $1 AND active
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `
	row := r.db.QueryRow(ctx, query, accountNumber)
	var key domain.PixKey
	err := row.Scan(&key.ID, &key.AccountNumber, &key.Type, &key.Value, &key.Active, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find principal pix key", zap.Error(err))
		return nil, err
	}
	return &key, nil
}

func (r *Repository) Deactivate(ctx context.Context, id int) error {
	query := `
		UPDATE pix_keys
		SET active = FALSE
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		zap.L().Error("can't deactivate pix key", zap.Error(err))
		return err
	}
	return nil
}
