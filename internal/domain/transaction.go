package domain

import "time"

// Transaction types
const (
	TypeIncome   = "income"
	TypeExpense  = "expense"
	TypeTransfer = "transfer"
)

// Transaction statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// DefaultCurrency is used when the client omits a currency
const DefaultCurrency = "USD"

// Transaction Model
type Transaction struct {
	ID              uint      `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID          uint      `gorm:"not null;index" json:"user_id"`                        // Owner, immutable
	CategoryID      *uint     `gorm:"index" json:"category_id"`                             // Optional category label
	Type            string    `gorm:"size:20;not null" json:"type"`                         // income, expense or transfer
	Amount          float64   `gorm:"not null" json:"amount"`                               // Strictly positive amount
	Currency        string    `gorm:"size:10;not null;default:USD" json:"currency"`         // Free-form currency code
	Status          string    `gorm:"size:20;not null;default:pending;index" json:"status"` // Lifecycle status
	Description     *string   `json:"description"`                                          // Optional description
	Recipient       *string   `gorm:"size:255" json:"recipient"`                            // Optional recipient
	Sender          *string   `gorm:"size:255" json:"sender"`                               // Optional sender
	TransactionDate time.Time `gorm:"not null;index" json:"transaction_date"`               // When the money moved
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`                     // Creation time
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`                     // Last modification time

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`      // Owner, cascades on user delete
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"` // Label, nulled on category delete
}

// ValidType reports whether t is a known transaction type
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense || t == TypeTransfer
}

// ValidStatus reports whether s is a known transaction status
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether status has no outgoing transition
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed || status == StatusCancelled
}

// CanOwnerTransition reports whether an owner may move a transaction from one status to another.
// Owners may restate the current status or cancel a pending transaction.
func CanOwnerTransition(from, to string) bool {
	if from == to {
		return true
	}
	return from == StatusPending && to == StatusCancelled
}

// CanAdminTransition reports whether an admin may move a transaction from one status to another
func CanAdminTransition(from, to string) bool {
	return from == StatusPending && (to == StatusCompleted || to == StatusFailed)
}

// NewTransaction is the client payload for creating a transaction.
// There is deliberately no status field: creation always starts pending.
type NewTransaction struct {
	Type            string
	Amount          float64
	Currency        string
	CategoryID      *uint
	Description     *string
	Recipient       *string
	Sender          *string
	TransactionDate *time.Time
}

// TransactionPatch carries the owner-editable fields; nil means unchanged
type TransactionPatch struct {
	CategoryID      *uint
	Type            *string
	Amount          *float64
	Currency        *string
	Status          *string
	Description     *string
	Recipient       *string
	Sender          *string
	TransactionDate *time.Time
}

// Empty reports whether the patch changes nothing
func (p TransactionPatch) Empty() bool {
	return p.CategoryID == nil && p.Type == nil && p.Amount == nil && p.Currency == nil &&
		p.Status == nil && p.Description == nil && p.Recipient == nil && p.Sender == nil &&
		p.TransactionDate == nil
}

// ListFilter narrows an owner's transaction listing
type ListFilter struct {
	Type       string
	Status     string
	CategoryID *uint
	Skip       int
	Limit      *int // nil means the default page size
}

// TransactionView is a transaction joined with its category label and owner name
type TransactionView struct {
	Transaction
	CategoryName  *string `json:"category_name"`
	CategoryColor *string `json:"category_color"`
	CategoryIcon  *string `json:"category_icon"`
	UserUsername  *string `json:"user_username,omitempty"`
}

// NewTransactionView flattens preloaded associations into the view
func NewTransactionView(t Transaction) TransactionView {
	v := TransactionView{Transaction: t}
	if t.Category != nil {
		v.CategoryName = &t.Category.Name
		v.CategoryColor = &t.Category.Color
		v.CategoryIcon = &t.Category.Icon
	}
	if t.User != nil {
		v.UserUsername = &t.User.Username
	}
	return v
}
