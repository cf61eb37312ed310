package domain

import "github.com/shopspring/decimal"

// TopupRequest records a claimed bank transfer against a number of coins.
// Creation is free (CoinCost stays 0); the TOPUP credit is appended only when
// an admin approves the request, in the same transaction as the status change.
type TopupRequest struct {
	TopupID      string          `json:"topupID"`
	OwnerID      string          `json:"ownerID"`
	Coins        int64           `json:"coins"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	PaidCurrency string          `json:"paidCurrency"`
	BankSlipRef  string          `json:"bankSlipRef"` // opaque upload reference, storage is external
	Moderation
	AuditFields
}

func (t TopupRequest) SubjectKind() SubjectKind    { return KindTopup }
func (t TopupRequest) SubjectID() string           { return t.TopupID }
func (t TopupRequest) SubjectOwner() string        { return t.OwnerID }
func (t TopupRequest) ModerationState() Moderation { return t.Moderation }

var _ ModeratedSubject = TopupRequest{}
