package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTopupRequest claims a bank transfer against a number of coins.
type CreateTopupRequest struct {
	Coins        int64           `json:"coins" binding:"required,gt=0"`
	PaidAmount   decimal.Decimal `json:"paidAmount" binding:"required"`
	PaidCurrency string          `json:"paidCurrency" binding:"required,currencycode"`
	BankSlipRef  string          `json:"bankSlipRef" binding:"required,max=500"`
}

// TopupResponse is a top-up request as seen by its owner.
type TopupResponse struct {
	TopupID      string          `json:"topupID"`
	OwnerID      string          `json:"ownerID"`
	Coins        int64           `json:"coins"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	PaidCurrency string          `json:"paidCurrency"`
	BankSlipRef  string          `json:"bankSlipRef"`
	Status       string          `json:"status"`
	AdminNote    *string         `json:"adminNote,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ListTopupsResponse is a paginated page of top-up requests.
type ListTopupsResponse struct {
	Topups    []TopupResponse `json:"topups"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToTopupResponse maps a domain top-up request to its response shape.
func ToTopupResponse(t domain.TopupRequest) TopupResponse {
	return TopupResponse{
		TopupID:      t.TopupID,
		OwnerID:      t.OwnerID,
		Coins:        t.Coins,
		PaidAmount:   t.PaidAmount,
		PaidCurrency: t.PaidCurrency,
		BankSlipRef:  t.BankSlipRef,
		Status:       string(t.Status),
		AdminNote:    t.AdminNote,
		CreatedAt:    t.CreatedAt,
	}
}

// ToTopupResponseSlice maps a slice of domain top-up requests.
func ToTopupResponseSlice(topups []domain.TopupRequest) []TopupResponse {
	out := make([]TopupResponse, len(topups))
	for i, t := range topups {
		out[i] = ToTopupResponse(t)
	}
	return out
}
