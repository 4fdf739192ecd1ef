package transferservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/pg"
)

//go:generate mockgen -source=transferservice.go -destination=transferservice_mock.go -package=transferservice

type AccountRepo interface {
	FindByNumber(ctx context.Context, number int) (*domain.Account, error)
	UpdateBalance(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

type LedgerRepo interface {
	Append(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
}

type KeyDirectory interface {
	LookupActive(ctx context.Context, value string) (*domain.PixKey, error)
}

type Locker interface {
	Acquire(ctx context.Context, keys ...int) error
	Release(keys ...int)
}

// ErrSameAccount indicates a transfer whose source and destination are the
// same account.
var ErrSameAccount = errors.New("transfer to the same account")

type Service struct {
	accountRepo AccountRepo
	ledgerRepo  LedgerRepo
	keys        KeyDirectory
	locks       Locker
	txManager   pg.TXManager
}

func New(accountRepo AccountRepo, ledgerRepo LedgerRepo, keys KeyDirectory, locks Locker, txManager pg.TXManager) *Service {
	return &Service{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		keys:        keys,
		locks:       locks,
		txManager:   txManager,
	}
}

// Transfer moves funds between two accounts. The same-account check runs
// before any lookup so a bad request never touches the locks or the database.
func (s *Service) Transfer(ctx context.Context, from, to int, amount decimal.Decimal) (*domain.Account, error) {
	if from == to {
		return nil, ErrSameAccount
	}
	transaction := &domain.Transaction{
		Kind:              domain.TransactionKindTransfer,
		AccountNumber:     from,
		DestinationNumber: &to,
		Amount:            amount,
		Description:       fmt.Sprintf("transfer to account %d", to),
	}
	return s.execute(ctx, from, to, amount, transaction)
}

// TransferByKey resolves the destination through the key directory and then
// behaves like Transfer. A key pointing back at the source account is
// rejected the same way an explicit same-account transfer is.
func (s *Service) TransferByKey(ctx context.Context, from int, keyValue string, amount decimal.Decimal) (*domain.Account, error) {
	key, err := s.keys.LookupActive(ctx, keyValue)
	if err != nil {
		return nil, err
	}
	if key.AccountNumber == from {
		return nil, ErrSameAccount
	}
	transaction := &domain.Transaction{
		Kind:              domain.TransactionKindPixTransfer,
		AccountNumber:     from,
		DestinationNumber: &key.AccountNumber,
		PixKeyValue:       &key.Value,
		Amount:            amount,
		Description:       fmt.Sprintf("pix transfer to key %s", keyValue),
	}
	return s.execute(ctx, from, key.AccountNumber, amount, transaction)
}

func (s *Service) execute(ctx context.Context, from, to int, amount decimal.Decimal, transaction *domain.Transaction) (*domain.Account, error) {
	if err := s.locks.Acquire(ctx, from, to); err != nil {
		return nil, err
	}
	defer s.locks.Release(from, to)

	source, err := s.loadAccount(ctx, from)
	if err != nil {
		return nil, err
	}
	destination, err := s.loadAccount(ctx, to)
	if err != nil {
		return nil, err
	}

	if err := source.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := destination.Credit(amount); err != nil {
		return nil, err
	}

	var updated *domain.Account
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.accountRepo.UpdateBalance(ctx, source)
		if err != nil {
			return err
		}
		if _, err = s.accountRepo.UpdateBalance(ctx, destination); err != nil {
			return err
		}
		_, err = s.ledgerRepo.Append(ctx, transaction)
		return err
	})
	if err != nil {
		zap.L().Error("failed to persist transfer", zap.Error(err))
		return nil, err
	}

	zap.L().Info("transfer completed",
		zap.Int("from", from),
		zap.Int("to", to),
		zap.String("amount", amount.String()),
	)
	return updated, nil
}

func (s *Service) loadAccount(ctx context.Context, number int) (*domain.Account, error) {
	account, err := s.accountRepo.FindByNumber(ctx, number)
	if err != nil {
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}
