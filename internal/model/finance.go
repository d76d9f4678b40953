package model

// FinanceSummary is the server-side aggregate of all transactions.
type FinanceSummary struct {
	Income    Amount `json:"income"`
	Expenses  Amount `json:"expenses"`
	NetProfit Amount `json:"netProfit"`
}

// CategoryCount is how many transactions fall under a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
