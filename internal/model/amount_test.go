package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "number", input: `12.5`, want: "12.5"},
		{name: "numeric string", input: `"1234.50"`, want: "1234.5"},
		{name: "null is zero", input: `null`, want: "0"},
		{name: "garbage string", input: `"twelve"`, wantErr: true},
		{name: "boolean", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestTransaction_DecodesServerShape(t *testing.T) {
	payload := `{"id":"t1","type":"EXPENSE","amount":"50.00","category":"Supplies","description":"Gloves","createdAt":"2024-01-02T10:00:00Z"}`

	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(payload), &tx))

	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, TransactionExpense, tx.Type)
	assert.Equal(t, "50", tx.Amount.String())
	assert.Equal(t, 2024, tx.CreatedAt.Year())
}

func TestNewTransaction_SendsNumericAmount(t *testing.T) {
	body, err := json.Marshal(NewTransaction{
		Type:     TransactionIncome,
		Category: "Consultations",
		Amount:   AmountFromFloat(120.25),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"INCOME","category":"Consultations","description":"","amount":120.25}`, string(body))
}
