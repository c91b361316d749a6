package transaction

import "time"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Note     string    `json:"note,omitempty"`
}

type CreateTransactionRequest struct {
	Date     time.Time `json:"date" binding:"required"`
	Type     string    `json:"type" binding:"required,oneof=income expense"`
	Category string    `json:"category" binding:"required,max=80"`
	Amount   float64   `json:"amount" binding:"required,gt=0"`
	Note     string    `json:"note" binding:"omitempty,max=500"`
}

func NewFromCreateRequest(userID int64, req CreateTransactionRequest) Transaction {
	return Transaction{
		UserID:   userID,
		Date:     req.Date,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
}
