package dto

import (
	"time"

	"github.com/andresilva/pixledger/internal/domain"
)

type RegisterPixKeyRequestDTO struct {
	Type  string `json:"type" example:"email"`
	Value string `json:"value" example:"maria@example.com"`
}

type PixKeyResponseDTO struct {
	ID            int    `json:"id" example:"1"`
	AccountNumber int    `json:"account_number" example:"1001"`
	Type          string `json:"type" example:"email"`
	Value         string `json:"value" example:"maria@example.com"`
	Active        bool   `json:"active" example:"true"`
	CreatedAt     string `json:"created_at" example:"2020-12-09T16:09:57+03:00"`
}

func NewPixKeyResponse(key domain.PixKey) PixKeyResponseDTO {
	return PixKeyResponseDTO{
		ID:            key.ID,
		AccountNumber: key.AccountNumber,
		Type:          key.Type,
		Value:         key.Value,
		Active:        key.Active,
		CreatedAt:     key.CreatedAt.Format(time.RFC3339),
	}
}
