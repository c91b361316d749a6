package goal

import "time"

type SavingsGoal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount float64    `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Note          string     `json:"note,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type CreateGoalRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=120"`
	TargetAmount float64    `json:"targetAmount" binding:"required,gt=0"`
	Deadline     *time.Time `json:"deadline"`
	Note         string     `json:"note" binding:"omitempty,max=500"`
}

// UpdateGoalRequest is a partial update: nil fields keep their stored value.
type UpdateGoalRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=1,max=120"`
	TargetAmount  *float64   `json:"targetAmount" binding:"omitempty,gt=0"`
	CurrentAmount *float64   `json:"currentAmount" binding:"omitempty,min=0"`
	Deadline      *time.Time `json:"deadline"`
	Note          *string    `json:"note" binding:"omitempty,max=500"`
}

func NewFromCreateRequest(userID int64, req CreateGoalRequest) SavingsGoal {
	return SavingsGoal{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Note:         req.Note,
		CreatedAt:    time.Now().UTC(),
	}
}
