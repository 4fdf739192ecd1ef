package service

import (
	"github.com/andresilva/pixledger/internal/handlers/accounts"
	"github.com/andresilva/pixledger/internal/handlers/pixkeys"
	"github.com/andresilva/pixledger/internal/handlers/transfers"

	"github.com/andresilva/pixledger/internal/pg"
	"github.com/andresilva/pixledger/internal/repo"
	accountservice "github.com/andresilva/pixledger/internal/service/accountservice"
	pixkeyservice "github.com/andresilva/pixledger/internal/service/pixkeyservice"
	transferservice "github.com/andresilva/pixledger/internal/service/transferservice"
	"github.com/andresilva/pixledger/pkg/locker"
)

type Services struct {
	AccountService  accounts.Service
	PixKeyService   pixkeys.Service
	TransferService transfers.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, locks *locker.Locker) *Services {
	pixKeyService := pixkeyservice.New(repo.PixKeyRepo, repo.AccountRepo)
	accountService := accountservice.New(repo.AccountRepo, repo.TransactionRepo, pixKeyService, locks, txManager)
	transferService := transferservice.New(repo.AccountRepo, repo.TransactionRepo, pixKeyService, locks, txManager)

	return &Services{
		AccountService:  accountService,
		PixKeyService:   pixKeyService,
		TransferService: transferService,
	}
}
