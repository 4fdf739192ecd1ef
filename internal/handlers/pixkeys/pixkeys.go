package pixkeys

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andresilva/pixledger/internal/domain"
	"github.com/andresilva/pixledger/internal/dto"
	pixkeyservice "github.com/andresilva/pixledger/internal/service/pixkeyservice"
	"github.com/andresilva/pixledger/pkg/utils"
)

//go:generate mockgen -source=pixkeys.go -destination=pixkeys_mock.go -package=pixkeys

type Service interface {
	Register(ctx context.Context, accountNumber int, keyType, value string) (*domain.PixKey, error)
	ListByAccount(ctx context.Context, accountNumber int) ([]domain.PixKey, error)
	Deactivate(ctx context.Context, id int) error
}

type PixKeyHandler struct {
	pixKeyService Service
}

func New(pixKeyService Service) *PixKeyHandler {
	return &PixKeyHandler{
		pixKeyService: pixKeyService,
	}
}

// Register godoc
//
//	@Summary		Register a pix key
//	@Description	Attach a new active key to the account. A random-type key may omit the value; the server generates one.
//	@Tags			Pix keys
//	@Accept			json
//	@Produce		json
//	@Param			number	path		int							true	"Account number"
//	@Param			request	body		dto.RegisterPixKeyRequestDTO	true	"Key type and value"
//	@Success		201		{object}	dto.PixKeyResponseDTO		"Key registered"
//	@Failure		400		{object}	utils.Response				"Invalid request"
//	@Failure		404		{object}	utils.Response				"Account not found"
//	@Failure		409		{object}	utils.Response				"Key value already in use"
//	@Failure		422		{object}	utils.Response				"Invalid key value"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/accounts/{number}/pix-keys [post]
func (h *PixKeyHandler) Register(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid account number")
		return
	}

	var req dto.RegisterPixKeyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := h.pixKeyService.Register(r.Context(), number, req.Type, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, pixkeyservice.ErrPixKeyAlreadyUsed):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, pixkeyservice.ErrInvalidPixKey):
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewPixKeyResponse(*key))
}

// ListByAccount godoc
//
//	@Summary		List account pix keys
//	@Description	Retrieve every key ever attached to the account, newest first, including deactivated ones.
//	@Tags			Pix keys
//	@Produce		json
//	@Param			number	path		int	true	"Account number"
//	@Success		200		{array}		dto.PixKeyResponseDTO	"Keys"
//	@Failure		404		{object}	utils.Response			"Account not found"
//	@Failure		422		{object}	utils.Response			"Invalid account number"
//	@Failure		500		{object}	utils.Response			"Internal server error"
//	@Router			/api/accounts/{number}/pix-keys [get]
func (h *PixKeyHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid account number")
		return
	}

	keys, err := h.pixKeyService.ListByAccount(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := make([]dto.PixKeyResponseDTO, len(keys))
	for i, key := range keys {
		response[i] = dto.NewPixKeyResponse(key)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Deactivate godoc
//
//	@Summary		Deactivate a pix key
//	@Description	Mark the key inactive so it no longer resolves for transfers. Deactivating an already-inactive key succeeds without effect.
//	@Tags			Pix keys
//	@Produce		json
//	@Param			id	path		int				true	"Key id"
//	@Success		200	{object}	utils.Response	"Key deactivated"
//	@Failure		404	{object}	utils.Response	"Key not found"
//	@Failure		422	{object}	utils.Response	"Invalid key id"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/pix-keys/{id} [delete]
func (h *PixKeyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid key id")
		return
	}

	if err := h.pixKeyService.Deactivate(r.Context(), id); err != nil {
		if errors.Is(err, pixkeyservice.ErrPixKeyNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, "pix key deactivated")
}
