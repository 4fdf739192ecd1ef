package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/andresilva/pixledger/docs"
	accountshandlers "github.com/andresilva/pixledger/internal/handlers/accounts"
	pixkeyshandlers "github.com/andresilva/pixledger/internal/handlers/pixkeys"
	transfershandlers "github.com/andresilva/pixledger/internal/handlers/transfers"
	"github.com/andresilva/pixledger/internal/service"
)

//go:generate mockgen -source=handlers.go -destination=handlers_mock.go -package=handlers

type AccountHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	GetAccount(w http.ResponseWriter, r *http.Request)
	ListAccounts(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type TransferHandler interface {
	Transfer(w http.ResponseWriter, r *http.Request)
	TransferByKey(w http.ResponseWriter, r *http.Request)
}

type PixKeyHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	ListByAccount(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AccountHandler  AccountHandler
	TransferHandler TransferHandler
	PixKeyHandler   PixKeyHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AccountHandler:  accountshandlers.New(s.AccountService),
		TransferHandler: transfershandlers.New(s.TransferService),
		PixKeyHandler:   pixkeyshandlers.New(s.PixKeyService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.AccountHandler.CreateAccount)
			r.Get("/", h.AccountHandler.ListAccounts)
			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", h.AccountHandler.GetAccount)
				r.Post("/deposit", h.AccountHandler.Deposit)
				r.Post("/withdraw", h.AccountHandler.Withdraw)
				r.Get("/transactions", h.AccountHandler.GetTransactions)
				r.Post("/pix-keys", h.PixKeyHandler.Register)
				r.Get("/pix-keys", h.PixKeyHandler.ListByAccount)
			})
		})
		r.Route("/transfers", func(r chi.Router) {
			r.Post("/", h.TransferHandler.Transfer)
			r.Post("/pix", h.TransferHandler.TransferByKey)
		})
		r.Delete("/pix-keys/{id}", h.PixKeyHandler.Deactivate)
	})

	return r
}
