package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"observer-finance/internal/domain"
)

type stubTransactionRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Transaction
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{nextID: 1, byID: make(map[int64]domain.Transaction)}
}

func (s *stubTransactionRepo) Create(_ context.Context, trx domain.Transaction) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trx.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	trx.CreatedAt = now
	trx.UpdatedAt = now
	s.byID[trx.ID] = trx
	return trx, nil
}

func (s *stubTransactionRepo) ListByUser(_ context.Context, userID int64) ([]domain.Transaction, error) {
	return s.filter(func(trx domain.Transaction) bool { return trx.UserID == userID }), nil
}

func (s *stubTransactionRepo) ListByType(_ context.Context, userID int64, trxType domain.TransactionType) ([]domain.Transaction, error) {
	return s.filter(func(trx domain.Transaction) bool {
		return trx.UserID == userID && trx.Type == trxType
	}), nil
}

func (s *stubTransactionRepo) ListByCategory(_ context.Context, userID int64, category string) ([]domain.Transaction, error) {
	return s.filter(func(trx domain.Transaction) bool {
		return trx.UserID == userID && trx.Category == category
	}), nil
}

func (s *stubTransactionRepo) TotalByType(_ context.Context, userID int64, trxType domain.TransactionType) (float64, error) {
	var total float64
	for _, trx := range s.filter(func(trx domain.Transaction) bool {
		return trx.UserID == userID && trx.Type == trxType
	}) {
		total += trx.Amount
	}
	return total, nil
}

func (s *stubTransactionRepo) GetByID(_ context.Context, id, userID int64) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trx, ok := s.byID[id]
	if !ok || trx.UserID != userID {
		return domain.Transaction{}, pgx.ErrNoRows
	}
	return trx, nil
}

func (s *stubTransactionRepo) Save(_ context.Context, trx domain.Transaction) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[trx.ID]; !ok {
		return domain.Transaction{}, pgx.ErrNoRows
	}
	trx.UpdatedAt = time.Now().UTC()
	s.byID[trx.ID] = trx
	return trx, nil
}

func (s *stubTransactionRepo) Delete(_ context.Context, id, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trx, ok := s.byID[id]
	if !ok || trx.UserID != userID {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

func (s *stubTransactionRepo) filter(keep func(domain.Transaction) bool) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Transaction{}
	for _, trx := range s.byID {
		if keep(trx) {
			out = append(out, trx)
		}
	}
	return out
}

func (a *testAPI) registerToken(t *testing.T, email string) string {
	t.Helper()
	payload := a.register(t, email, "secret1")
	token, _ := payload["access_token"].(string)
	if token == "" {
		t.Fatalf("expected access_token for %s", email)
	}
	return token
}

func (a *testAPI) createTransaction(t *testing.T, token string, body map[string]any) int64 {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/transactions", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	trx, ok := payload["transaction"].(map[string]any)
	if !ok {
		t.Fatalf("expected transaction object, got %v", payload["transaction"])
	}
	id, ok := trx["id"].(float64)
	if !ok {
		t.Fatalf("expected numeric id, got %v", trx["id"])
	}
	return int64(id)
}

func seedTransactions(t *testing.T, api *testAPI, token string) {
	t.Helper()
	api.createTransaction(t, token, map[string]any{
		"merchant": "Walmart", "category": "Groceries", "type": "Expense",
		"amount": 120.5, "date": "2025-10-29",
	})
	api.createTransaction(t, token, map[string]any{
		"merchant": "TechCorp", "category": "Salary", "type": "Income",
		"amount": 2500.0, "date": "2025-10-28",
	})
	api.createTransaction(t, token, map[string]any{
		"merchant": "Netflix", "category": "Entertainment", "type": "Expense",
		"amount": 75.25, "date": "2025-10-30",
	})
}

func TestListTransactionsFilters(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerToken(t, "a@b.com")
	seedTransactions(t, api, token)

	rec := api.do(t, http.MethodGet, "/api/transactions?type=Expense", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	items, _ := payload["transactions"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(items))
	}
	for _, item := range items {
		trx := item.(map[string]any)
		if trx["type"] != "Expense" {
			t.Fatalf("expected only expenses, got %v", trx["type"])
		}
	}

	rec = api.do(t, http.MethodGet, "/api/transactions?category=Groceries", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	payload = decodeBody(t, rec)
	items, _ = payload["transactions"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 grocery transaction, got %d", len(items))
	}

	rec = api.do(t, http.MethodGet, "/api/transactions?type=Bogus", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid type filter, got %d", rec.Code)
	}
}

func TestTransactionTotalByType(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerToken(t, "a@b.com")
	seedTransactions(t, api, token)

	// Los movimientos de otro usuario no suman en el total propio.
	other := api.registerToken(t, "other@x.com")
	api.createTransaction(t, other, map[string]any{
		"merchant": "Gas Station", "category": "Transport", "type": "Expense",
		"amount": 999.0, "date": "2025-10-30",
	})

	rec := api.do(t, http.MethodGet, "/api/transactions/stats/total?type=Expense", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	if payload["type"] != "Expense" {
		t.Fatalf("expected type echoed, got %v", payload["type"])
	}
	total, _ := payload["total"].(float64)
	if total != 195.75 {
		t.Fatalf("expected total 195.75, got %v", total)
	}

	rec = api.do(t, http.MethodGet, "/api/transactions/stats/total", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without type, got %d", rec.Code)
	}
}

func TestGetTransactionScopedToOwner(t *testing.T) {
	api := newTestAPI(t)
	owner := api.registerToken(t, "a@b.com")
	intruder := api.registerToken(t, "other@x.com")
	id := api.createTransaction(t, owner, map[string]any{
		"merchant": "Walmart", "category": "Groceries", "type": "Expense",
		"amount": 120.5, "date": "2025-10-29",
	})

	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/transactions/%d", id), owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/transactions/%d", id), intruder, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d", rec.Code)
	}

	rec = api.do(t, http.MethodGet, "/api/transactions/9999", owner, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", rec.Code)
	}
}

func TestGetUserByID(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerToken(t, "a@b.com")

	rec := api.do(t, http.MethodGet, "/api/users/1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	user, ok := payload["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", payload["user"])
	}
	if user["email"] != "a@b.com" {
		t.Fatalf("unexpected email %v", user["email"])
	}

	rec = api.do(t, http.MethodGet, "/api/users/999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}
