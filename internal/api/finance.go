package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/carepoint/internal/model"
)

const (
	pathSummary       = "/finance/finance"
	pathTransactions  = "/finance/transactions"
	pathTransaction   = "/finance/transaction"
	pathTopCategories = "/finance/most-category"
	pathMostExpensive = "/finance/most-expensive"
)

// FinanceSummary returns income, expenses and net profit.
func (c *Client) FinanceSummary(ctx context.Context) (model.FinanceSummary, error) {
	body, err := c.get(ctx, pathSummary, nil)
	if err != nil {
		return model.FinanceSummary{}, fmt.Errorf("failed to load finance summary: %w", err)
	}

	var payload struct {
		Income    *model.Amount `json:"income"`
		Expenses  *model.Amount `json:"expenses"`
		NetProfit *model.Amount `json:"netProfit"`
	}
	if err := decodeObject(pathSummary, body, &payload); err != nil {
		return model.FinanceSummary{}, err
	}
	if payload.Income == nil || payload.Expenses == nil || payload.NetProfit == nil {
		return model.FinanceSummary{}, malformed(pathSummary, errors.New("summary is missing income, expenses or netProfit"))
	}

	return model.FinanceSummary{
		Income:    *payload.Income,
		Expenses:  *payload.Expenses,
		NetProfit: *payload.NetProfit,
	}, nil
}

// Transactions returns the ledger.
func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	body, err := c.get(ctx, pathTransactions, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	txs, err := decodeList[model.Transaction](pathTransactions, body)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if err := checkTransaction(tx); err != nil {
			return nil, malformed(pathTransactions, err)
		}
	}
	return txs, nil
}

// TopCategories returns the server's category ranking in the order it was sent.
func (c *Client) TopCategories(ctx context.Context) ([]model.CategoryCount, error) {
	body, err := c.get(ctx, pathTopCategories, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load top categories: %w", err)
	}

	counts := []model.CategoryCount{}
	if isBlank(body) {
		return counts, nil
	}

	var payload struct {
		Category []struct {
			Category string `json:"category"`
			Count    struct {
				ID int `json:"id"`
			} `json:"_count"`
		} `json:"category"`
	}
	if err := decodeObject(pathTopCategories, body, &payload); err != nil {
		return nil, err
	}

	for _, row := range payload.Category {
		counts = append(counts, model.CategoryCount{Category: row.Category, Count: row.Count.ID})
	}
	return counts, nil
}

// MostExpensive returns the largest transaction, or nil when the ledger is empty.
func (c *Client) MostExpensive(ctx context.Context) (*model.Transaction, error) {
	body, err := c.get(ctx, pathMostExpensive, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load most expensive transaction: %w", err)
	}
	if isBlank(body) {
		return nil, nil
	}

	var tx model.Transaction
	if err := decodeObject(pathMostExpensive, body, &tx); err != nil {
		return nil, err
	}
	if tx.ID == "" {
		return nil, nil
	}
	if err := checkTransaction(tx); err != nil {
		return nil, malformed(pathMostExpensive, err)
	}
	return &tx, nil
}

// CreateTransaction records a new ledger entry.
func (c *Client) CreateTransaction(ctx context.Context, tx model.NewTransaction) (model.Transaction, error) {
	body, _, err := c.post(ctx, pathTransaction, tx)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	var created model.Transaction
	if err := decodeObject(pathTransaction, body, &created); err != nil {
		return model.Transaction{}, err
	}
	if err := checkTransaction(created); err != nil {
		return model.Transaction{}, malformed(pathTransaction, err)
	}
	return created, nil
}

func checkTransaction(tx model.Transaction) error {
	if !tx.Type.Valid() {
		return fmt.Errorf("transaction %q has unknown type %q", tx.ID, tx.Type)
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("transaction %q has negative amount", tx.ID)
	}
	return nil
}
