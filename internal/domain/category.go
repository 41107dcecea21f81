package domain

import "time"

// Category defaults applied when the client omits them
const (
	DefaultCategoryColor = "#1976d2"
	DefaultCategoryIcon  = "payment"
)

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                            // Primary key
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`       // Unique display name
	Description *string   `json:"description"`                                     // Optional description
	Color       string    `gorm:"size:20;not null;default:'#1976d2'" json:"color"` // Hex color for the UI
	Icon        string    `gorm:"size:50;not null;default:'payment'" json:"icon"`  // Icon name for the UI
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`                // Creation time
}

// CategoryInput is the payload for creating a category
type CategoryInput struct {
	Name        string
	Description *string
	Color       string
	Icon        string
}

// CategoryPatch carries the editable category fields; nil means unchanged
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// Empty reports whether the patch changes nothing
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Color == nil && p.Icon == nil
}

// DefaultCategories are seeded once at bootstrap, keyed by name
func DefaultCategories() []Category {
	desc := func(s string) *string { return &s }
	return []Category{
		{Name: "Salary", Description: desc("Income from work"), Color: "#4caf50", Icon: "work"},
		{Name: "Sales", Description: desc("Income from selling goods or services"), Color: "#2e7d32", Icon: "store"},
		{Name: "Groceries", Description: desc("Food and household shopping"), Color: "#f44336", Icon: "shopping_cart"},
		{Name: "Transport", Description: desc("Transport expenses"), Color: "#ff9800", Icon: "directions_car"},
		{Name: "Utilities", Description: desc("Utility bills"), Color: "#9c27b0", Icon: "home"},
		{Name: "Entertainment", Description: desc("Leisure and entertainment"), Color: "#e91e63", Icon: "movie"},
		{Name: "Health", Description: desc("Medical expenses"), Color: "#00bcd4", Icon: "local_hospital"},
		{Name: "Education", Description: desc("Learning and courses"), Color: "#3f51b5", Icon: "school"},
		{Name: "Transfers", Description: desc("Money transfers"), Color: "#607d8b", Icon: "sync_alt"},
		{Name: "Other", Description: desc("Everything else"), Color: "#9e9e9e", Icon: "category"},
	}
}
