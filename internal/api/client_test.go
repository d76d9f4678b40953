package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/carepoint/internal/common"
	"github.com/Veraticus/carepoint/internal/model"
	"github.com/Veraticus/carepoint/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, fake *testutil.FakeAPI) *Client {
	t.Helper()
	client, err := NewClient(Config{BaseURL: fake.URL() + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, common.ErrMissingConfig)

	_, err = NewClient(Config{BaseURL: "://bad"})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestClientSendsRequestID(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("X-Request-ID"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListMedicines(context.Background())
	require.NoError(t, err)
	_, err = client.ListMedicines(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.NotEmpty(t, seen[0])
	assert.NotEqual(t, seen[0], seen[1])
}

func TestListMedicinesShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{name: "data envelope", raw: `{"data":[{"id":"1","name":"Aspirin","price":"4.50","quantity":3}]}`, wantLen: 1},
		{name: "bare array", raw: `[{"id":"1","name":"Aspirin"},{"id":"2","name":"Ibuprofen"}]`, wantLen: 2},
		{name: "null body", raw: `null`, wantLen: 0},
		{name: "missing data", raw: `{}`, wantLen: 0},
		{name: "null data", raw: `{"data":null}`, wantLen: 0},
		{name: "data of wrong type", raw: `{"data":"oops"}`, wantErr: true},
		{name: "scalar body", raw: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAPI(t)
			fake.Override("/med/medicines", testutil.Override{Raw: tt.raw})
			client := newTestClient(t, fake)

			meds, err := client.ListMedicines(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMalformedPayload)
				assert.Nil(t, meds)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, meds)
			assert.Len(t, meds, tt.wantLen)
		})
	}
}

func TestSearchMedicines(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Medicines = []model.Medicine{
		{ID: "1", Name: "Aspirin", Category: "Analgesic"},
		{ID: "2", Name: "Amoxicillin", Category: "Antibiotic"},
	}
	client := newTestClient(t, fake)
	ctx := context.Background()

	t.Run("empty criteria lists everything", func(t *testing.T) {
		meds, err := client.SearchMedicines(ctx, model.FilterCriteria{Name: "  "})
		require.NoError(t, err)
		assert.Len(t, meds, 2)
		assert.Zero(t, fake.Calls("/med/medicines/search"))
	})

	t.Run("blank criteria are omitted", func(t *testing.T) {
		meds, err := client.SearchMedicines(ctx, model.FilterCriteria{Name: "asp"})
		require.NoError(t, err)
		require.Len(t, meds, 1)
		assert.Equal(t, "Aspirin", meds[0].Name)

		queries := fake.Queries("/med/medicines/search")
		require.Len(t, queries, 1)
		assert.Equal(t, "name=asp", queries[0])
	})
}

func TestFinanceSummary(t *testing.T) {
	t.Run("computed from ledger", func(t *testing.T) {
		fake := testutil.NewFakeAPI(t)
		fake.Transactions = []model.Transaction{
			{ID: "a", Type: model.TransactionIncome, Category: "Consult", Amount: model.AmountFromFloat(100)},
			{ID: "b", Type: model.TransactionExpense, Category: "Supplies", Amount: model.AmountFromFloat(40)},
		}
		client := newTestClient(t, fake)

		summary, err := client.FinanceSummary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "100", summary.Income.String())
		assert.Equal(t, "40", summary.Expenses.String())
		assert.Equal(t, "60", summary.NetProfit.String())
	})

	t.Run("missing field is malformed", func(t *testing.T) {
		fake := testutil.NewFakeAPI(t)
		fake.Override("/finance/finance", testutil.Override{Raw: `{"income":1,"expenses":2}`})
		client := newTestClient(t, fake)

		_, err := client.FinanceSummary(context.Background())
		require.ErrorIs(t, err, common.ErrMalformedPayload)
	})
}

func TestTransactionsRejectsUnknownType(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/finance/transactions", testutil.Override{
		Raw: `[{"id":"1","type":"REFUND","category":"x","amount":1}]`,
	})
	client := newTestClient(t, fake)

	_, err := client.Transactions(context.Background())
	require.ErrorIs(t, err, common.ErrMalformedPayload)
}

func TestTopCategories(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/finance/most-category", testutil.Override{
		Raw: `{"category":[{"category":"Supplies","_count":{"id":7}},{"category":"Salaries","_count":{"id":2}}]}`,
	})
	client := newTestClient(t, fake)

	counts, err := client.TopCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.CategoryCount{
		{Category: "Supplies", Count: 7},
		{Category: "Salaries", Count: 2},
	}, counts)
}

func TestMostExpensiveEmptyLedger(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	tx, err := client.MostExpensive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestCreateTransaction(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	created, err := client.CreateTransaction(context.Background(), model.NewTransaction{
		Type:     model.TransactionExpense,
		Category: "Supplies",
		Amount:   model.AmountFromFloat(12.5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "12.5", created.Amount.String())
	assert.Len(t, fake.Transactions, 1)
}

func TestCreateTransactionIsNotRetried(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/finance/transaction", testutil.Override{Status: http.StatusServiceUnavailable})
	client, err := NewClient(Config{BaseURL: fake.URL(), Retries: 3})
	require.NoError(t, err)

	_, err = client.CreateTransaction(context.Background(), model.NewTransaction{
		Type: model.TransactionIncome, Category: "x", Amount: model.AmountFromFloat(1),
	})
	require.Error(t, err)
	assert.Equal(t, 1, fake.Calls("/finance/transaction"))
}

func TestGetRetriesServerErrors(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/med/expires", testutil.Override{Status: http.StatusBadGateway})
	client, err := NewClient(Config{BaseURL: fake.URL(), Retries: 2})
	require.NoError(t, err)

	_, err = client.ExpiringMedicines(context.Background())
	require.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 2, fake.Calls("/med/expires"))
}

func TestGetRetriesRateLimit(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/med/expires", testutil.Override{
		Status: http.StatusTooManyRequests,
		Body:   map[string]string{"error": "slow down"},
	})
	client, err := NewClient(Config{BaseURL: fake.URL(), Retries: 2})
	require.NoError(t, err)

	_, err = client.ExpiringMedicines(context.Background())
	require.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 2, fake.Calls("/med/expires"))

	var remoteErr *common.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusTooManyRequests, remoteErr.Status)
	assert.Equal(t, "slow down", common.UserMessage(err))
}

func TestRateLimitedPostIsNotRetried(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.Override("/finance/transaction", testutil.Override{Status: http.StatusTooManyRequests})
	client, err := NewClient(Config{BaseURL: fake.URL(), Retries: 3})
	require.NoError(t, err)

	_, err = client.CreateTransaction(context.Background(), model.NewTransaction{
		Type: model.TransactionIncome, Category: "x", Amount: model.AmountFromFloat(1),
	})
	require.Error(t, err)
	assert.True(t, common.IsRetryable(err))
	assert.Equal(t, 1, fake.Calls("/finance/transaction"))
}

func TestCurrentSessionShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *model.Session
	}{
		{
			name: "status envelope",
			raw:  `{"authenticated":true,"user":{"id":"u1","firstname":"Ana","email":"ana@example.com","role":"doctor"}}`,
			want: &model.Session{UserID: "u1", Firstname: "Ana", Email: "ana@example.com", Role: model.RoleDoctor},
		},
		{
			name: "not authenticated",
			raw:  `{"authenticated":false}`,
		},
		{
			name: "bare user id",
			raw:  `{"userId":42}`,
			want: &model.Session{UserID: "42"},
		},
		{
			name: "profile object",
			raw:  `{"id":"7","firstname":"Bo","email":"bo@example.com","role":"ADMIN"}`,
			want: &model.Session{UserID: "7", Firstname: "Bo", Email: "bo@example.com", Role: model.RoleAdmin},
		},
		{
			name: "empty object",
			raw:  `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAPI(t)
			fake.Override("/auth/status", testutil.Override{Raw: tt.raw})
			client := newTestClient(t, fake)

			got, err := client.CurrentSession(context.Background(), "/auth/status")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCurrentSessionUnauthorized(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)

	_, err := client.CurrentSession(context.Background(), "/check")
	require.Error(t, err)
	assert.True(t, common.IsAuthRequired(err))
	assert.Empty(t, common.UserMessage(err))
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.AddAccount("secret1", model.Session{UserID: "9", Firstname: "Cy", Email: "cy@example.com", Role: model.RoleUser})
	client := newTestClient(t, fake)
	ctx := context.Background()

	_, err := client.Login(ctx, model.Credentials{Email: "cy@example.com", Password: "wrong"})
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.False(t, common.IsAuthRequired(err))
	assert.Equal(t, "Invalid email or password", common.UserMessage(err))

	msg, err := client.Login(ctx, model.Credentials{Email: "cy@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Login successful", msg.Message)

	s, err := client.CurrentSession(ctx, "/me")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "9", s.UserID)

	require.NoError(t, client.Logout(ctx))
	s, err = client.CurrentSession(ctx, "/auth/status")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestRegisterEndpoints(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	client := newTestClient(t, fake)
	ctx := context.Background()

	reg := model.Registration{Firstname: "Di", Lastname: "Lee", Email: "di@example.com", Password: "secret1"}
	_, err := client.Register(ctx, reg, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.Calls("/register"))

	_, err = client.Register(ctx, reg, false)
	require.Error(t, err)
	assert.Equal(t, "Email already registered", common.UserMessage(err))

	reg.Email = "ed@example.com"
	reg.Role = model.RoleDoctor
	_, err = client.Register(ctx, reg, true)
	require.Error(t, err)
	assert.Equal(t, 1, fake.Calls("/login/register/admin"))
}

func TestBookStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "limit", status: http.StatusUnauthorized, want: common.ErrBookingLimit},
		{name: "slot taken", status: http.StatusPaymentRequired, want: common.ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeAPI(t)
			fake.Override("/book", testutil.Override{Status: tt.status})
			client := newTestClient(t, fake)

			err := client.Book(context.Background(), model.BookingRequest{UserID: "1", Date: "2026-11-02", Time: "09:00"})
			require.ErrorIs(t, err, tt.want)
			assert.False(t, common.IsAuthRequired(err))
		})
	}
}

func TestBookAgainstFake(t *testing.T) {
	fake := testutil.NewFakeAPI(t)
	fake.BookingLimit = 1
	fake.TakeSlot("2026-11-02", "07:00")
	client := newTestClient(t, fake)
	ctx := context.Background()

	err := client.Book(ctx, model.BookingRequest{UserID: "1", Date: "2026-11-02", Time: "07:00"})
	require.ErrorIs(t, err, common.ErrSlotUnavailable)

	require.NoError(t, client.Book(ctx, model.BookingRequest{UserID: "1", Date: "2026-11-02", Time: "08:00"}))

	err = client.Book(ctx, model.BookingRequest{UserID: "1", Date: "2026-11-03", Time: "08:00"})
	require.ErrorIs(t, err, common.ErrBookingLimit)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(Config{BaseURL: url})
	require.NoError(t, err)

	_, err = client.ListMedicines(context.Background())
	var netErr *common.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Could not reach the server", common.UserMessage(err))
}
