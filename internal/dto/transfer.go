package dto

type TransferRequestDTO struct {
	From   int    `json:"from" example:"1001"`
	To     int    `json:"to" example:"1002"`
	Amount string `json:"amount" example:"250.00"`
}

type PixTransferRequestDTO struct {
	From   int    `json:"from" example:"1001"`
	Key    string `json:"key" example:"maria@example.com"`
	Amount string `json:"amount" example:"250.00"`
}
