package api

import (
	"context"
	"fmt"

	"github.com/Veraticus/carepoint/internal/model"
)

const (
	pathMedicines       = "/med/medicines"
	pathMedicinesSearch = "/med/medicines/search"
	pathExpiring        = "/med/expires"
)

// ListMedicines returns the full inventory.
func (c *Client) ListMedicines(ctx context.Context) ([]model.Medicine, error) {
	body, err := c.get(ctx, pathMedicines, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return decodeList[model.Medicine](pathMedicines, body)
}

// SearchMedicines filters the inventory. With no criteria set it is the same as
// ListMedicines, so an empty parameter is never sent.
func (c *Client) SearchMedicines(ctx context.Context, criteria model.FilterCriteria) ([]model.Medicine, error) {
	if criteria.IsEmpty() {
		return c.ListMedicines(ctx)
	}

	body, err := c.get(ctx, pathMedicinesSearch, criteria.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}
	return decodeList[model.Medicine](pathMedicinesSearch, body)
}

// ExpiringMedicines returns what the server considers close to expiry.
func (c *Client) ExpiringMedicines(ctx context.Context) ([]model.Medicine, error) {
	body, err := c.get(ctx, pathExpiring, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load expiring medicines: %w", err)
	}
	return decodeList[model.Medicine](pathExpiring, body)
}
