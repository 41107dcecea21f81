package domain

// Stats is the per-user analytics summary. Sums only count completed transactions.
type Stats struct {
	TotalTransactions int64   `json:"total_transactions"`
	TotalIncome       float64 `json:"total_income"`
	TotalExpense      float64 `json:"total_expense"`
	Balance           float64 `json:"balance"`
	PendingCount      int64   `json:"pending_count"`
	CompletedCount    int64   `json:"completed_count"`
	FailedCount       int64   `json:"failed_count"`
	CancelledCount    int64   `json:"cancelled_count"`
}

// MonthlyPoint is one month of completed income and expense
type MonthlyPoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DailyPoint is one day of completed income and expense
type DailyPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryTotal is the completed expense total for one category.
// Category and Color are nil for uncategorized transactions.
type CategoryTotal struct {
	Category *string `json:"category"`
	Color    *string `json:"color"`
	Total    float64 `json:"total"`
}

// StatusCount is the number of transactions in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TopCategory ranks categories by completed amount
type TopCategory struct {
	Category         *string `json:"category"`
	Color            *string `json:"color"`
	Icon             *string `json:"icon"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
}
