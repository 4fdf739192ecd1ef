package transfers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/dto"
	pixkeyservice "github.com/andresilva/pixledger/internal/service/pixkeyservice"
	transferservice "github.com/andresilva/pixledger/internal/service/transferservice"
	"github.com/andresilva/pixledger/pkg/locker"
	"github.com/andresilva/pixledger/pkg/utils"
)

//go:generate mockgen -source=transfers.go -destination=transfers_mock.go -package=transfers

type Service interface {
	Transfer(ctx context.Context, from, to int, amount decimal.Decimal) (*domain.Account, error)
	TransferByKey(ctx context.Context, from int, keyValue string, amount decimal.Decimal) (*domain.Account, error)
}

type TransferHandler struct {
	transferService Service
}

func New(transferService Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Transfer godoc
//
//	@Summary		Transfer between accounts
//	@Description	Move funds from one account to another. The debit may dip into the source account's overdraft limit; the credit only raises the destination balance.
//	@Tags			Transfers
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.TransferRequestDTO	true	"Transfer request payload"
//	@Success		200		{object}	dto.AccountResponseDTO	"Updated source account"
//	@Failure		400		{object}	utils.Response			"Invalid request"
//	@Failure		402		{object}	utils.Response			"Insufficient funds"
//	@Failure		404		{object}	utils.Response			"Account not found"
//	@Failure		409		{object}	utils.Response			"Source and destination are the same"
//	@Failure		503		{object}	utils.Response			"Account is busy"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/transfers [post]
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	account, err := h.transferService.Transfer(r.Context(), req.From, req.To, amount)
	if err != nil {
		respondTransferError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account, nil))
}

// TransferByKey godoc
//
//	@Summary		Transfer to a pix key
//	@Description	Resolve the destination account through an active pix key and move funds to it.
//	@Tags			Transfers
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PixTransferRequestDTO	true	"Pix transfer request payload"
//	@Success		200		{object}	dto.AccountResponseDTO		"Updated source account"
//	@Failure		400		{object}	utils.Response				"Invalid request"
//	@Failure		402		{object}	utils.Response				"Insufficient funds"
//	@Failure		404		{object}	utils.Response				"Account or pix key not found"
//	@Failure		409		{object}	utils.Response				"Key belongs to the source account"
//	@Failure		503		{object}	utils.Response				"Account is busy"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/transfers/pix [post]
func (h *TransferHandler) TransferByKey(w http.ResponseWriter, r *http.Request) {
	var req dto.PixTransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "key is required")
		return
	}
	amount, err := dto.ParseAmount(req.Amount)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	account, err := h.transferService.TransferByKey(r.Context(), req.From, req.Key, amount)
	if err != nil {
		respondTransferError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewAccountResponse(account, nil))
}

func respondTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transferservice.ErrSameAccount):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pixkeyservice.ErrPixKeyNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, locker.ErrBusy):
		utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
