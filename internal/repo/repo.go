package repo

import (
	"github.com/andresilva/pixledger/internal/pg"
	accountrepo "github.com/andresilva/pixledger/internal/repo/account-repo"
	pixkeyrepo "github.com/andresilva/pixledger/internal/repo/pixkey-repo"
	transactionrepo "github.com/andresilva/pixledger/internal/repo/transaction-repo"
	"github.com/andresilva/pixledger/internal/service/accountservice"
	"github.com/andresilva/pixledger/internal/service/pixkeyservice"
)

type Repositories struct {
	AccountRepo     accountservice.AccountRepo
	PixKeyRepo      pixkeyservice.Repo
	TransactionRepo accountservice.LedgerRepo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	accountRepo := accountrepo.New(conn, txManager)
	pixKeyRepo := pixkeyrepo.New(conn)
	transactionRepo := transactionrepo.New(conn, txManager)

	return &Repositories{
		AccountRepo:     accountRepo,
		PixKeyRepo:      pixKeyRepo,
		TransactionRepo: transactionRepo,
	}
}
