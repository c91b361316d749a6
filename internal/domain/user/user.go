package user

import (
	"errors"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is one-to-one with User and replaced wholesale on settings
// updates.
type Profile struct {
	UserID        int64   `json:"userId"`
	UserType      string  `json:"userType"`
	SavingsGoal   float64 `json:"savingsGoal"`
	RiskTolerance string  `json:"riskTolerance"`
}

// DefaultProfile is what registration attaches to a brand-new user.
func DefaultProfile(userID int64) Profile {
	return Profile{
		UserID:        userID,
		UserType:      "general",
		SavingsGoal:   0,
		RiskTolerance: "moderate",
	}
}

var ErrNotFound = errors.New("user not found")

type UpdateProfileRequest struct {
	UserType      string  `json:"userType" binding:"required,oneof=student professional general"`
	SavingsGoal   float64 `json:"savingsGoal" binding:"min=0"`
	RiskTolerance string  `json:"riskTolerance" binding:"required,oneof=low moderate high"`
}
