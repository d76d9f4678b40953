package model

import "time"

// Medicine is an inventory item.
type Medicine struct {
	ExpiryDate   time.Time    `json:"expiryDate"`
	CreatedAt    time.Time    `json:"createdAt"`
	Order        *SupplyOrder `json:"order,omitempty"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Manufacturer string       `json:"manufacturer"`
	Description  string       `json:"description"`
	Price        Amount       `json:"price"`
	Quantity     int          `json:"quantity"`
}

// SupplyOrder is the purchase order a medicine arrived with.
type SupplyOrder struct {
	Supplier    string `json:"supplier"`
	OrderNumber string `json:"orderNumber"`
}

// ExpiresOn returns the expiry date.
func (m Medicine) ExpiresOn() time.Time {
	return m.ExpiryDate
}
