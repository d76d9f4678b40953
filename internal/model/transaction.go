package model

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType indicates whether money came in or went out.
type TransactionType string

const (
	// TransactionIncome is money received by the hospital.
	TransactionIncome TransactionType = "INCOME"
	// TransactionExpense is money spent by the hospital.
	TransactionExpense TransactionType = "EXPENSE"
)

// ParseTransactionType accepts INCOME or EXPENSE in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionIncome:
		return TransactionIncome, nil
	case TransactionExpense:
		return TransactionExpense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single ledger entry. It is immutable once created.
type Transaction struct {
	CreatedAt   time.Time       `json:"createdAt"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      Amount          `json:"amount"`
}

// NewTransaction is the body of a create-transaction request.
type NewTransaction struct {
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      Amount          `json:"amount"`
}
