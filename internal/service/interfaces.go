// Package service defines the interfaces pages and commands consume from the remote
// hospital API.
package service

import (
	"context"

	"github.com/Veraticus/carepoint/internal/model"
)

// Medicines lists and searches the medicine inventory.
type Medicines interface {
	ListMedicines(ctx context.Context) ([]model.Medicine, error)
	SearchMedicines(ctx context.Context, criteria model.FilterCriteria) ([]model.Medicine, error)
	ExpiringMedicines(ctx context.Context) ([]model.Medicine, error)
}

// Finance reads the ledger and its server-side aggregates.
type Finance interface {
	FinanceSummary(ctx context.Context) (model.FinanceSummary, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	TopCategories(ctx context.Context) ([]model.CategoryCount, error)
	MostExpensive(ctx context.Context) (*model.Transaction, error)
}

// TransactionCreator records a new ledger entry.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, tx model.NewTransaction) (model.Transaction, error)
}

// Sessions checks and ends the authenticated session.
type Sessions interface {
	CurrentSession(ctx context.Context, endpoint string) (*model.Session, error)
	Logout(ctx context.Context) error
}

// Accounts signs users in and creates accounts.
type Accounts interface {
	Login(ctx context.Context, creds model.Credentials) (model.Message, error)
	Register(ctx context.Context, reg model.Registration, privileged bool) (model.Message, error)
}

// Appointments books appointment slots.
type Appointments interface {
	Book(ctx context.Context, req model.BookingRequest) error
}

// Backend is everything the remote collaborator offers.
type Backend interface {
	Medicines
	Finance
	TransactionCreator
	Sessions
	Accounts
	Appointments
}
