package holding

import (
	"strings"
	"time"
)

type Holding struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Symbol   string    `json:"symbol"`
	Shares   float64   `json:"shares"`
	AvgPrice *float64  `json:"avgPrice,omitempty"`
	AddedAt  time.Time `json:"addedAt"`
}

type CreateHoldingRequest struct {
	Symbol   string   `json:"symbol" binding:"required,min=1,max=12"`
	Shares   float64  `json:"shares" binding:"required,gt=0"`
	AvgPrice *float64 `json:"avgPrice" binding:"omitempty,gt=0"`
}

// NewFromCreateRequest stamps ownership and normalizes the symbol to its
// upper-case form.
func NewFromCreateRequest(userID int64, req CreateHoldingRequest) Holding {
	return Holding{
		UserID:   userID,
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Shares:   req.Shares,
		AvgPrice: req.AvgPrice,
		AddedAt:  time.Now().UTC(),
	}
}
