package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCriteria_Values(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     string
		empty    bool
	}{
		{name: "nothing set", criteria: FilterCriteria{}, want: "", empty: true},
		{name: "blank strings are omitted", criteria: FilterCriteria{Name: "  ", Category: ""}, want: "", empty: true},
		{name: "name only", criteria: FilterCriteria{Name: "Paracetamol"}, want: "name=Paracetamol"},
		{
			name:     "all criteria",
			criteria: FilterCriteria{Name: "amox", Category: "Antibiotic", StartDate: &since},
			want:     "category=Antibiotic&name=amox&startDate=2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Values().Encode())
			assert.Equal(t, tt.empty, tt.criteria.IsEmpty())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestParseRoleAndTransactionType(t *testing.T) {
	r, ok := ParseRole("doctor")
	assert.True(t, ok)
	assert.Equal(t, RoleDoctor, r)

	_, ok = ParseRole("nurse")
	assert.False(t, ok)

	tt, err := ParseTransactionType(" expense ")
	require.NoError(t, err)
	assert.Equal(t, TransactionExpense, tt)

	_, err = ParseTransactionType("REFUND")
	assert.Error(t, err)
}

func TestSession_Initial(t *testing.T) {
	assert.Equal(t, "A", Session{Firstname: "ada"}.Initial())
	assert.Equal(t, "D", Session{Email: "doc@example.com"}.Initial())
	assert.Equal(t, "?", Session{}.Initial())
}
