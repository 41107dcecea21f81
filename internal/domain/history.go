package domain

import "time"

// History actions
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionApproved = "approved"
	ActionRejected = "rejected"
)

// TransactionHistory Model, append-only audit row
type TransactionHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	TransactionID uint      `gorm:"not null;index" json:"transaction_id"`   // Audited transaction
	UserID        uint      `gorm:"not null;index" json:"user_id"`          // Actor who made the change
	Action        string    `gorm:"size:20;not null" json:"action"`         // created, updated, approved, rejected
	OldStatus     *string   `gorm:"size:20" json:"old_status"`              // Status before the change
	NewStatus     *string   `gorm:"size:20" json:"new_status"`              // Status after the change
	Notes         *string   `json:"notes"`                                  // Free-form note
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"` // When the change happened

	Transaction *Transaction `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
	User        *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the audit table singular
func (TransactionHistory) TableName() string {
	return "transaction_history"
}
