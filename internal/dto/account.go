package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresilva/pixledger/internal/domain"
)

type CreateAccountRequestDTO struct {
	Name      string `json:"name" example:"Maria Silva"`
	Email     string `json:"email" example:"maria@example.com"`
	Document  string `json:"document" example:"52998224725"`
	BirthDate string `json:"birth_date" example:"1990-05-20"`
}

type AccountResponseDTO struct {
	Number          int     `json:"number" example:"1001"`
	Balance         string  `json:"balance" example:"150.50"`
	Limit           string  `json:"limit" example:"100.00"`
	AvailableTotal  string  `json:"available_total" example:"250.50"`
	PrincipalPixKey *string `json:"principal_pix_key,omitempty" example:"maria@example.com"`
	OpenedAt        string  `json:"opened_at" example:"2020-12-09T16:09:57+03:00"`
}

type AmountRequestDTO struct {
	Amount string `json:"amount" example:"150.50"`
}

type TransactionResponseDTO struct {
	ID                int     `json:"id" example:"1"`
	Kind              string  `json:"kind" example:"transfer"`
	AccountNumber     int     `json:"account_number" example:"1001"`
	DestinationNumber *int    `json:"destination_number,omitempty" example:"1002"`
	PixKeyValue       *string `json:"pix_key_value,omitempty" example:"maria@example.com"`
	Amount            string  `json:"amount" example:"250.00"`
	Description       string  `json:"description" example:"transfer to account 1002"`
	CreatedAt         string  `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

// ParseAmount reads a monetary value from the request body. A comma decimal
// separator is accepted and normalized before parsing.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return decimal.NewFromString(normalized)
}

func NewAccountResponse(account *domain.Account, principal *domain.PixKey) AccountResponseDTO {
	response := AccountResponseDTO{
		Number:         account.Number,
		Balance:        account.Balance.StringFixed(2),
		Limit:          account.Limit.StringFixed(2),
		AvailableTotal: account.AvailableTotal().StringFixed(2),
		OpenedAt:       account.OpenedAt.Format(time.RFC3339),
	}
	if principal != nil {
		response.PrincipalPixKey = &principal.Value
	}
	return response
}

func NewTransactionResponse(transaction domain.Transaction) TransactionResponseDTO {
	return TransactionResponseDTO{
		ID:                transaction.ID,
		Kind:              transaction.Kind,
		AccountNumber:     transaction.AccountNumber,
		DestinationNumber: transaction.DestinationNumber,
		PixKeyValue:       transaction.PixKeyValue,
		Amount:            transaction.Amount.StringFixed(2),
		Description:       transaction.Description,
		CreatedAt:         transaction.CreatedAt.Format(time.RFC3339),
	}
}
