package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/dto"
	"github.com/andresilva/pixledger/pkg/locker"
	"github.com/andresilva/pixledger/pkg/utils"
	"github.com/andresilva/pixledger/pkg/validate"
)

//go:generate mockgen -source=accounts.go -destination=accounts_mock.go -package=accounts

type Service interface {
	CreateAccount(ctx context.Context, customer *domain.Customer) (*domain.Account, error)
	GetAccount(ctx context.Context, number int) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetPrincipalKey(ctx context.Context, number int) (*domain.PixKey, error)
	Deposit(ctx context.Context, number int, amount decimal.Decimal) (*domain.Account, error)
	Withdraw(ctx context.Context, number int, amount decimal.Decimal) (*domain.Account, error)
	History(ctx context.Context, number int, limit int) ([]domain.Transaction, error)
}

type AccountHandler struct {
	accountService Service
}

func New(accountService Service) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// CreateAccount godoc
//
//	@Summary		Open a new account
//	@Description	Create a customer and open an account for them. The account number is assigned by the server.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateAccountRequestDTO	true	"Customer data"
//	@Success		201		{object}	dto.AccountResponseDTO		"Account created"
//	@Failure		400		{object}	utils.Response				"Invalid request body"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Document == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name and document are required")
		return
	}
	if !validate.IsCPF(req.Document) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid document")
		return
	}
	if req.Email != "" && !validate.IsEmail(req.Email) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid email")
		return
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid birth date")
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), &domain.Customer{
		Name:      req.Name,
		Email:     req.Email,
		Document:  req.Document,
		BirthDate: birthDate,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewAccountResponse(account, nil))
}

// GetAccount godoc
//
//	@Summary		Get account details
//	@Description	Retrieve an account with its balance, remaining limit, the total available for withdrawal and the principal pix key.
//	@Tags			Accounts
//	@Produce		json
//	@Param			number	path		int						true	"Account number"
//	@Success		200		{object}	dto.AccountResponseDTO	"Account details"
//	@Failure		404		{object}	utils.Response			"Account not found"
//	@Failure		422		{object}	utils.Response			"Invalid account number"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/{number} [get]
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid account number")
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	principal, err := h.accountService.GetPrincipalKey(r.Context(), number)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account, principal))
}

// ListAccounts godoc
//
//	@Summary		List accounts
//	@Description	Retrieve all accounts ordered by number.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{array}		dto.AccountResponseDTO	"Accounts"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.AccountResponseDTO, len(accounts))
	for i, account := range accounts {
		response[i] = dto.NewAccountResponse(&account, nil)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Deposit godoc
//
//	@Summary		Deposit into an account
//	@Description	Credit the given amount to the account balance. The overdraft limit is not affected.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			number	path		int						true	"Account number"
//	@Param			request	body		dto.AmountRequestDTO	true	"Amount to deposit"
//	@Success		200		{object}	dto.AccountResponseDTO	"Updated account"
//	@Failure		400		{object}	utils.Response			"Invalid amount"
//	@Failure		404		{object}	utils.Response			"Account not found"
//	@Failure		422		{object}	utils.Response			"Invalid account number"
//	@Failure		503		{object}	utils.Response			"Account is busy"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/{number}/deposit [post]
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, h.accountService.Deposit)
}

// Withdraw godoc
//
//	@Summary		Withdraw from an account
//	@Description	Debit the given amount. When the amount exceeds the cash balance the remainder is taken from the overdraft limit.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			number	path		int						true	"Account number"
//	@Param			request	body		dto.AmountRequestDTO	true	"Amount to withdraw"
//	@Success		200		{object}	dto.AccountResponseDTO	"Updated account"
//	@Failure		400		{object}	utils.Response			"Invalid amount"
//	@Failure		402		{object}	utils.Response			"Insufficient funds"
//	@Failure		404		{object}	utils.Response			"Account not found"
//	@Failure		422		{object}	utils.Response			"Invalid account number"
//	@Failure		503		{object}	utils.Response			"Account is busy"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/{number}/withdraw [post]
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutateBalance(w, r, h.accountService.Withdraw)
}

func (h *AccountHandler) mutateBalance(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, number int, amount decimal.Decimal) (*domain.Account, error),
) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid account number")
		return
	}

	var req dto.AmountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	account, err := op(r.Context(), number, amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, domain.ErrAccountNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, locker.ErrBusy):
			utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account, nil))
}

// GetTransactions godoc
//
//	@Summary		Get account statement
//	@Description	Retrieve the most recent ledger records involving the account, newest first.
//	@Tags			Accounts
//	@Produce		json
//	@Param			number	path		int	true	"Account number"
//	@Param			limit	query		int	false	"Maximum records to return (default 10)"
//	@Success		200		{array}		dto.TransactionResponseDTO	"Ledger records"
//	@Failure		404		{object}	utils.Response				"Account not found"
//	@Failure		422		{object}	utils.Response				"Invalid account number"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/accounts/{number}/transactions [get]
func (h *AccountHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid account number")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	transactions, err := h.accountService.History(r.Context(), number, limit)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.TransactionResponseDTO, len(transactions))
	for i, transaction := range transactions {
		response[i] = dto.NewTransactionResponse(transaction)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
