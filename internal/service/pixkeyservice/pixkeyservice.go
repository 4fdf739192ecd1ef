package pixkeyservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/pkg/validate"
)

//go:generate mockgen -source=pixkeyservice.go -destination=pixkeyservice_mock.go -package=pixkeyservice

type Repo interface {
	Create(ctx context.Context, key *domain.PixKey) (*domain.PixKey, error)
	FindActiveByValue(ctx context.Context, value string) (*domain.PixKey, error)
	FindByID(ctx context.Context, id int) (*domain.PixKey, error)
	FindByAccount(ctx context.Context, accountNumber int) ([]domain.PixKey, error)
	FindPrincipal(ctx context.Context, accountNumber int) (*domain.PixKey, error)
	Deactivate(ctx context.Context, id int) error
}

type AccountRepo interface {
	FindByNumber(ctx context.Context, number int) (*domain.Account, error)
}

type Service struct {
	keyRepo     Repo
	accountRepo AccountRepo
}

func New(keyRepo Repo, accountRepo AccountRepo) *Service {
	return &Service{
		keyRepo:     keyRepo,
		accountRepo: accountRepo,
	}
}

var (
	ErrPixKeyNotFound    = errors.New("pix key not found")
	ErrPixKeyAlreadyUsed = errors.New("pix key value already in use")
	ErrInvalidPixKey     = errors.New("invalid pix key")
)

// Register stores a new active key for the account. A random-type key with no
// value gets a generated UUID. The value must not collide with any active key,
// on any account.
func (s *Service) Register(ctx context.Context, accountNumber int, keyType, value string) (*domain.PixKey, error) {
	account, err := s.accountRepo.FindByNumber(ctx, accountNumber)
	if err != nil {
		zap.L().Error("can't find account", zap.Error(err))
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}

	if keyType == domain.PixKeyTypeRandom && value == "" {
		value = uuid.NewString()
	}
	if !validKeyValue(keyType, value) {
		return nil, ErrInvalidPixKey
	}

	existing, err := s.keyRepo.FindActiveByValue(ctx, value)
	if err != nil {
		zap.L().Error("can't check pix key value", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("pix key value already in use", zap.String("value", value))
		return nil, ErrPixKeyAlreadyUsed
	}

	key := &domain.PixKey{
		AccountNumber: accountNumber,
		Type:          keyType,
		Value:         value,
	}
	created, err := s.keyRepo.Create(ctx, key)
	if err != nil {
		// A concurrent registration can slip past the lookup; the partial
		// unique index on active keys reports it here.
		if isUniqueViolation(err) {
			zap.L().Info("pix key value already in use", zap.String("value", value))
			return nil, ErrPixKeyAlreadyUsed
		}
		zap.L().Error("can't create pix key", zap.Error(err))
		return nil, err
	}

	zap.L().Info("pix key registered", zap.Int("account", accountNumber), zap.String("type", keyType))
	return created, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func validKeyValue(keyType, value string) bool {
	switch keyType {
	case domain.PixKeyTypeCPF:
		return validate.IsCPF(value)
	case domain.PixKeyTypeEmail:
		return validate.IsEmail(value)
	case domain.PixKeyTypePhone:
		return validate.IsPhone(value)
	case domain.PixKeyTypeRandom:
		return validate.IsUUID(value)
	default:
		return false
	}
}

func (s *Service) LookupActive(ctx context.Context, value string) (*domain.PixKey, error) {
	key, err := s.keyRepo.FindActiveByValue(ctx, value)
	if err != nil {
		zap.L().Error("can't look up pix key", zap.Error(err))
		return nil, err
	}
	if key == nil {
		return nil, ErrPixKeyNotFound
	}
	return key, nil
}

func (s *Service) ListByAccount(ctx context.Context, accountNumber int) ([]domain.PixKey, error) {
	account, err := s.accountRepo.FindByNumber(ctx, accountNumber)
	if err != nil {
		zap.L().Error("can't find account", zap.Error(err))
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	keys, err := s.keyRepo.FindByAccount(ctx, accountNumber)
	if err != nil {
		zap.L().Error("can't list pix keys", zap.Error(err))
		return nil, err
	}
	return keys, nil
}

// PrincipalKey returns the account's representative key, or nil when the
// account has no active keys.
func (s *Service) PrincipalKey(ctx context.Context, accountNumber int) (*domain.PixKey, error) {
	return s.keyRepo.FindPrincipal(ctx, accountNumber)
}

// Deactivate marks a key inactive. Deactivating an already-inactive key is a
// no-op, so retries are safe.
func (s *Service) Deactivate(ctx context.Context, id int) error {
	key, err := s.keyRepo.FindByID(ctx, id)
	if err != nil {
		zap.L().Error("can't find pix key", zap.Error(err))
		return err
	}
	if key == nil {
		return ErrPixKeyNotFound
	}
	if !key.Active {
		return nil
	}
	if err := s.keyRepo.Deactivate(ctx, id); err != nil {
		zap.L().Error("can't deactivate pix key", zap.Error(err))
		return err
	}
	zap.L().Info("pix key deactivated", zap.Int("id", id))
	return nil
}
