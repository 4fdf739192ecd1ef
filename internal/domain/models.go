package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Document  string    `db:"document"`
	BirthDate time.Time `db:"birth_date"`
	CreatedAt time.Time `db:"created_at"`
}

type Account struct {
	Number     int             `db:"number"`
	CustomerID int             `db:"customer_id"`
	Balance    decimal.Decimal `db:"balance"`
	Limit      decimal.Decimal `db:"limit_amount"`
	OpenedAt   time.Time       `db:"opened_at"`
}

const (
	PixKeyTypeCPF    string = "cpf"
	PixKeyTypeEmail  string = "email"
	PixKeyTypePhone  string = "phone"
	PixKeyTypeRandom string = "random"
)

type PixKey struct {
	ID            int       `db:"id"`
	AccountNumber int       `db:"account_number"`
	Type          string    `db:"type"`
	Value         string    `db:"value"`
	Active        bool      `db:"active"`
	CreatedAt     time.Time `db:"created_at"`
}

const (
	TransactionKindDeposit     string = "deposit"
	TransactionKindWithdrawal  string = "withdrawal"
	TransactionKindTransfer    string = "transfer"
	TransactionKindPixTransfer string = "pix_transfer"
)

type Transaction struct {
	ID                int             `db:"id"`
	Kind              string          `db:"kind"`
	AccountNumber     int             `db:"account_number"`
	DestinationNumber *int            `db:"destination_number"`
	PixKeyValue       *string         `db:"pix_key_value"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	CreatedAt         time.Time       `db:"created_at"`
	NotifiedAt        *time.Time      `db:"notified_at"`
}
