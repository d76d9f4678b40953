// Package finance validates and submits new ledger entries and tells dependent views
// to refresh when one is created.
package finance

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/remote"
	"github.com/Veraticus/carepoint/internal/service"
	"github.com/shopspring/decimal"
)

// Draft is the add-transaction form as typed by the user.
type Draft struct {
	Type        string
	Amount      string
	Category    string
	Description string
}

// EmptyDraft is the form's initial state.
func EmptyDraft() Draft {
	return Draft{Type: string(model.TransactionIncome)}
}

// Validate converts a draft into a request, or reports the first invalid field.
func (d Draft) Validate() (model.NewTransaction, error) {
	txType, err := model.ParseTransactionType(d.Type)
	if err != nil {
		return model.NewTransaction{}, common.NewValidationError("type", "must be INCOME or EXPENSE")
	}

	raw := strings.TrimSpace(d.Amount)
	if raw == "" {
		return model.NewTransaction{}, common.NewValidationError("amount", "is required")
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.NewTransaction{}, common.NewValidationError("amount", "must be a number")
	}
	if !amount.IsPositive() {
		return model.NewTransaction{}, common.NewValidationError("amount", "must be greater than zero")
	}

	category := strings.TrimSpace(d.Category)
	if category == "" {
		return model.NewTransaction{}, common.NewValidationError("category", "is required")
	}

	return model.NewTransaction{
		Type:        txType,
		Amount:      model.NewAmount(amount),
		Category:    category,
		Description: strings.TrimSpace(d.Description),
	}, nil
}

// Controller owns the add-transaction form.
type Controller struct {
	creator service.TransactionCreator
	changes *remote.Broadcast[model.Transaction]
	draft   Draft
}

// NewController creates a controller with an empty draft.
func NewController(creator service.TransactionCreator) *Controller {
	return &Controller{
		creator: creator,
		changes: remote.NewBroadcast[model.Transaction](),
		draft:   EmptyDraft(),
	}
}

// Draft returns the current form contents.
func (c *Controller) Draft() Draft {
	return c.draft
}

// SetDraft replaces the form contents.
func (c *Controller) SetDraft(d Draft) {
	c.draft = d
}

// Subscribe registers for a notification each time a transaction is created.
func (c *Controller) Subscribe() (<-chan model.Transaction, func()) {
	return c.changes.Subscribe()
}

// Close ends every subscription.
func (c *Controller) Close() {
	c.changes.Close()
}

// Submit validates d and, if it is valid, creates the transaction. The draft is kept on
// any failure and reset to EmptyDraft on success.
func (c *Controller) Submit(ctx context.Context, d Draft) (model.Transaction, error) {
	c.draft = d

	req, err := d.Validate()
	if err != nil {
		return model.Transaction{}, err
	}

	created, err := c.creator.CreateTransaction(ctx, req)
	if err != nil {
		slog.Warn("Transaction submission failed", "category", req.Category, "error", err)
		return model.Transaction{}, rejection(err)
	}

	c.draft = EmptyDraft()
	c.changes.Publish(created)
	slog.Info("Transaction created", "id", created.ID, "type", created.Type, "amount", created.Amount.String())
	return created, nil
}

// rejection gives a server refusal without a message the generic submission message.
func rejection(err error) error {
	var remoteErr *common.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message == "" && remoteErr.Status != 0 && !common.IsAuthRequired(err) {
		remoteErr.Message = "failed to create transaction"
	}
	return err
}
