package dto

import (
	"time"

	"github.com/mvtechguy/islandvault/internal/core/domain"
)

// SubmitProfileRequest creates or resubmits the caller's member profile.
type SubmitProfileRequest struct {
	FullName    string     `json:"fullName" binding:"required,min=2,max=100"`
	Mobile      string     `json:"mobile" binding:"required,min=7,max=20"`
	Island      string     `json:"island" binding:"required,max=100"`
	DateOfBirth *time.Time `json:"dateOfBirth" binding:"omitempty"`
	Gender      string     `json:"gender" binding:"required,oneof=MALE FEMALE"`
	Bio         string     `json:"bio" binding:"max=2000"`
}

// ProfileResponse is the caller's profile together with the coin balance.
type ProfileResponse struct {
	UserID      string     `json:"userID"`
	FullName    string     `json:"fullName"`
	Mobile      string     `json:"mobile"`
	Island      string     `json:"island"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender"`
	Bio         string     `json:"bio"`
	Status      string     `json:"status"`
	AdminNote   *string    `json:"adminNote,omitempty"`
	Balance     int64      `json:"balance"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToProfileResponse maps a domain user and balance to the response shape.
func ToProfileResponse(user domain.User, balance int64) ProfileResponse {
	return ProfileResponse{
		UserID:      user.UserID,
		FullName:    user.FullName,
		Mobile:      user.Mobile,
		Island:      user.Island,
		DateOfBirth: user.DateOfBirth,
		Gender:      user.Gender,
		Bio:         user.Bio,
		Status:      string(user.Status),
		AdminNote:   user.AdminNote,
		Balance:     balance,
		CreatedAt:   user.CreatedAt,
	}
}
