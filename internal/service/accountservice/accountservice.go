package accountservice

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/pg"
)

//go:generate mockgen -source=accountservice.go -destination=accountservice_mock.go -package=accountservice

type AccountRepo interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	CreateAccount(ctx context.Context, customerID int) (*domain.Account, error)
	FindByNumber(ctx context.Context, number int) (*domain.Account, error)
	FindAll(ctx context.Context) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, account *domain.Account) (*domain.Account, error)
}

type LedgerRepo interface {
	Append(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	FindByAccount(ctx context.Context, accountNumber int, limit int) ([]domain.Transaction, error)
	FindUnnotified(ctx context.Context, limit uint32) ([]domain.Transaction, error)
	MarkNotified(ctx context.Context, id int) error
}

type KeyDirectory interface {
	PrincipalKey(ctx context.Context, accountNumber int) (*domain.PixKey, error)
}

type Locker interface {
	Acquire(ctx context.Context, keys ...int) error
	Release(keys ...int)
}

// Statements show the last ten movements unless the caller asks otherwise.
const defaultHistoryLimit = 10

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

// CreateAccount opens an account for a new customer. The customer row and the
// account row are written in one transaction; the account number comes from
// the database sequence.
func (s *Service) CreateAccount(ctx context.Context, customer *domain.Customer) (*domain.Account, error) {
	var account *domain.Account
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		created, err := s.accountRepo.CreateCustomer(ctx, customer)
		if err != nil {
			return err
		}
		account, err = s.accountRepo.CreateAccount(ctx, created.ID)
		return err
	})
	if err != nil {
		zap.L().Error("can't create account", zap.Error(err))
		return nil, err
	}
	zap.L().Info("account created", zap.Int("number", account.Number))
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, number int) (*domain.Account, error) {
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

func (s *Service) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	return accounts, nil
}

func (s *Service) GetPrincipalKey(ctx context.Context, number int) (*domain.PixKey, error) {
	return s.keys.PrincipalKey(ctx, number)
}

func (s *Service) Deposit(ctx context.Context, number int, amount decimal.Decimal) (*domain.Account, error) {
	if err := s.locks.Acquire(ctx, number); err != nil {
		return nil, err
	}
	defer s.locks.Release(number)

	account, err := s.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := account.Deposit(amount); err != nil {
		return nil, err
	}

	updated, err := s.persist(ctx, account, &domain.Transaction{
		Kind:          domain.TransactionKindDeposit,
		AccountNumber: number,
		Amount:        amount,
		Description:   "deposit into account",
	})
	if err != nil {
		zap.L().Error("failed to persist deposit", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) Withdraw(ctx context.Context, number int, amount decimal.Decimal) (*domain.Account, error) {
	if err := s.locks.Acquire(ctx, number); err != nil {
		return nil, err
	}
	defer s.locks.Release(number)

	account, err := s.GetAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := account.Withdraw(amount); err != nil {
		return nil, err
	}

	updated, err := s.persist(ctx, account, &domain.Transaction{
		Kind:          domain.TransactionKindWithdrawal,
		AccountNumber: number,
		Amount:        amount,
		Description:   "withdrawal from account",
	})
	if err != nil {
		zap.L().Error("failed to persist withdrawal", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) History(ctx context.Context, number int, limit int) ([]domain.Transaction, error) {
	if _, err := s.GetAccount(ctx, number); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	transactions, err := s.ledgerRepo.FindByAccount(ctx, number, limit)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// persist writes the mutated account state and the ledger record as one
// atomic unit. If either write fails nothing is committed.
func (s *Service) persist(ctx context.Context, account *domain.Account, transaction *domain.Transaction) (*domain.Account, error) {
	var updated *domain.Account
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.accountRepo.UpdateBalance(ctx, account)
		if err != nil {
			return err
		}
		_, err = s.ledgerRepo.Append(ctx, transaction)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
