package models

import "time"

const (
	EarningTypeAdRevenue  = "ad_revenue"
	EarningTypeSupportTip = "support_tip"
	EarningTypeWithdrawal = "withdrawal"
)

const (
	EarningStatusPending   = "pending"
	EarningStatusCompleted = "completed"
	EarningStatusRejected  = "rejected"
)

// EarningTransaction is one row of the earnings history. Withdrawals carry a
// negative amount.
type EarningTransaction struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	NoteID    *int      `json:"noteId,omitempty"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Method    string    `json:"method,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EarningsSummary is computed server-side in one query:
// withdrawable = total - (pending + completed withdrawals).
type EarningsSummary struct {
	Total        float64 `json:"total"`
	Withdrawable float64 `json:"withdrawable"`
	Pending      float64 `json:"pending"`
}
