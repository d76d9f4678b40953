// Package testutil provides a fake hospital API for tests. It is an in-memory gin
// router behind httptest, speaking the same paths and payload shapes as the real
// remote collaborator.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const sessionCookie = "token"

// Account is a user the fake API knows about.
type Account struct {
	Session  model.Session
	Password string
}

// Override replaces the normal handling of a path.
type Override struct {
	Body   any
	Raw    string
	Status int
	Delay  time.Duration
}

// FakeAPI is an in-memory stand-in for the hospital API.
type FakeAPI struct {
	Server       *httptest.Server
	overrides    map[string]Override
	calls        map[string]int
	queries      map[string][]string
	accounts     map[string]Account
	sessions     map[string]string
	bookings     map[string]int
	takenSlots   map[string]bool
	Medicines    []model.Medicine
	Expiring     []model.Medicine
	Transactions []model.Transaction
	BookingLimit int
	mu           sync.Mutex
}

// NewFakeAPI starts a fake API that is shut down when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		overrides:    make(map[string]Override),
		calls:        make(map[string]int),
		queries:      make(map[string][]string),
		accounts:     make(map[string]Account),
		sessions:     make(map[string]string),
		bookings:     make(map[string]int),
		takenSlots:   make(map[string]bool),
		BookingLimit: 3,
	}

	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake API.
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// AddAccount registers a user who can log in.
func (f *FakeAPI) AddAccount(password string, s model.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[s.Email] = Account{Session: s, Password: password}
}

// TakeSlot marks a date and time as already booked.
func (f *FakeAPI) TakeSlot(date, slot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.takenSlots[date+" "+slot] = true
}

// Override makes path answer with o until cleared.
func (f *FakeAPI) Override(path string, o Override) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[path] = o
}

// ClearOverride restores normal handling of path.
func (f *FakeAPI) ClearOverride(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.overrides, path)
}

// Calls returns how many requests reached path.
func (f *FakeAPI) Calls(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

// Queries returns the raw query strings sent to path, in order.
func (f *FakeAPI) Queries(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries[path]...)
}

func (f *FakeAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(f.record)

	r.GET("/med/medicines", f.listMedicines)
	r.GET("/med/medicines/search", f.searchMedicines)
	r.GET("/med/expires", f.expiring)

	r.GET("/finance/finance", f.summary)
	r.GET("/finance/transactions", f.transactions)
	r.POST("/finance/transaction", f.createTransaction)
	r.GET("/finance/most-category", f.mostCategory)
	r.GET("/finance/most-expensive", f.mostExpensive)

	r.POST("/login/login", f.login)
	r.POST("/register", f.register)
	r.POST("/login/register/admin", f.registerAdmin)
	r.POST("/logout", f.logout)
	r.GET("/check", f.check)
	r.GET("/auth/status", f.authStatus)
	r.GET("/me", f.me)

	r.POST("/book", f.book)

	return r
}

// record counts calls and applies overrides before any handler runs.
func (f *FakeAPI) record(c *gin.Context) {
	path := c.Request.URL.Path

	f.mu.Lock()
	f.calls[path]++
	f.queries[path] = append(f.queries[path], c.Request.URL.RawQuery)
	o, overridden := f.overrides[path]
	f.mu.Unlock()

	if !overridden {
		c.Next()
		return
	}

	if o.Delay > 0 {
		select {
		case <-time.After(o.Delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	status := o.Status
	if status == 0 {
		status = http.StatusOK
	}

	switch {
	case o.Raw != "":
		c.Data(status, "application/json", []byte(o.Raw))
		c.Abort()
	case o.Body != nil:
		c.AbortWithStatusJSON(status, o.Body)
	case o.Status != 0:
		c.AbortWithStatus(status)
	default:
		c.Next()
	}
}

func (f *FakeAPI) listMedicines(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": f.Medicines})
}

func (f *FakeAPI) searchMedicines(c *gin.Context) {
	name := strings.ToLower(c.Query("name"))
	category := strings.ToLower(c.Query("category"))

	var since *time.Time
	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
		since = &parsed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	matches := []model.Medicine{}
	for _, m := range f.Medicines {
		if name != "" && !strings.Contains(strings.ToLower(m.Name), name) {
			continue
		}
		if category != "" && !strings.EqualFold(m.Category, category) {
			continue
		}
		if since != nil && m.CreatedAt.Before(*since) {
			continue
		}
		matches = append(matches, m)
	}
	c.JSON(http.StatusOK, gin.H{"data": matches})
}

func (f *FakeAPI) expiring(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": f.Expiring})
}

func (f *FakeAPI) summary(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	income, expenses := decimal.Zero, decimal.Zero
	for _, tx := range f.Transactions {
		if tx.Type == model.TransactionIncome {
			income = income.Add(tx.Amount.Decimal)
		} else {
			expenses = expenses.Add(tx.Amount.Decimal)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"income":    income.InexactFloat64(),
		"expenses":  expenses.InexactFloat64(),
		"netProfit": income.Sub(expenses).InexactFloat64(),
	})
}

func (f *FakeAPI) transactions(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.JSON(http.StatusOK, f.Transactions)
}

func (f *FakeAPI) createTransaction(c *gin.Context) {
	var req model.NewTransaction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
		return
	}
	if !req.Type.Valid() || strings.TrimSpace(req.Category) == "" || !req.Amount.IsPositive() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "transaction rejected"})
		return
	}

	tx := model.Transaction{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	f.mu.Lock()
	f.Transactions = append(f.Transactions, tx)
	f.mu.Unlock()

	c.JSON(http.StatusCreated, tx)
}

func (f *FakeAPI) mostCategory(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := map[string]int{}
	var order []string
	for _, tx := range f.Transactions {
		if _, seen := counts[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		counts[tx.Category]++
	}

	rows := make([]gin.H, 0, len(order))
	for _, name := range order {
		rows = append(rows, gin.H{"category": name, "_count": gin.H{"id": counts[name]}})
	}
	c.JSON(http.StatusOK, gin.H{"category": rows})
}

func (f *FakeAPI) mostExpensive(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var best *model.Transaction
	for i := range f.Transactions {
		if best == nil || f.Transactions[i].Amount.GreaterThan(best.Amount.Decimal) {
			best = &f.Transactions[i]
		}
	}
	if best == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, best)
}

func (f *FakeAPI) login(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[creds.Email]
	if !ok || account.Password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token := uuid.NewString()
	f.sessions[token] = creds.Email
	c.SetCookie(sessionCookie, token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

func (f *FakeAPI) register(c *gin.Context) {
	f.registerWithRole(c, false)
}

func (f *FakeAPI) registerAdmin(c *gin.Context) {
	if s := f.currentSession(c); s == nil || s.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins only"})
		return
	}
	f.registerWithRole(c, true)
}

func (f *FakeAPI) registerWithRole(c *gin.Context, privileged bool) {
	var reg model.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role := model.RoleUser
	if privileged && reg.Role != "" {
		role = reg.Role
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.accounts[reg.Email]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	f.accounts[reg.Email] = Account{
		Password: reg.Password,
		Session: model.Session{
			UserID:    strconv.Itoa(len(f.accounts) + 1),
			Firstname: reg.Firstname,
			Email:     reg.Email,
			Role:      role,
		},
	}
	c.JSON(http.StatusCreated, gin.H{})
}

func (f *FakeAPI) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookie); err == nil {
		f.mu.Lock()
		delete(f.sessions, token)
		f.mu.Unlock()
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusOK)
}

func (f *FakeAPI) currentSession(c *gin.Context) *model.Session {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	email, ok := f.sessions[token]
	if !ok {
		return nil
	}
	s := f.accounts[email].Session
	return &s
}

func (f *FakeAPI) check(c *gin.Context) {
	s := f.currentSession(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": s.UserID})
}

func (f *FakeAPI) authStatus(c *gin.Context) {
	s := f.currentSession(c)
	if s == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":        s.UserID,
			"firstname": s.Firstname,
			"email":     s.Email,
			"role":      s.Role,
		},
	})
}

func (f *FakeAPI) me(c *gin.Context) {
	s := f.currentSession(c)
	if s == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        s.UserID,
		"firstname": s.Firstname,
		"email":     s.Email,
		"role":      s.Role,
	})
}

func (f *FakeAPI) book(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bookings[req.UserID] >= f.BookingLimit {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "booking limit reached"})
		return
	}
	key := req.Date + " " + req.Time
	if f.takenSlots[key] {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "time slot not available"})
		return
	}

	f.takenSlots[key] = true
	f.bookings[req.UserID]++
	c.JSON(http.StatusCreated, gin.H{"message": "Booked"})
}
