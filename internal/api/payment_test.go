package api

import (
	"fmt"
	"net/http"
	"testing"

	"travelhub/internal/domain"
)

func TestDetectCardType(t *testing.T) {
	cases := []struct {
		number string
		want   string
	}{
		{"4111111111111111", "visa"},
		{"5105105105105100", "mastercard"},
		{"2221000000000009", "mastercard"},
		{"378282246310005", "amex"},
		{"341111111111111", "amex"},
		{"6011111111111117", "discover"},
		{"9999999999999999", "card"},
	}
	for _, tc := range cases {
		if got := detectCardType(tc.number); got != tc.want {
			t.Errorf("detectCardType(%s) = %q, want %q", tc.number, got, tc.want)
		}
	}
}

func TestAddPaymentMethodMasksCardNumber(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "payer@example.com", "user")

	w := doJSON(t, r, http.MethodPost, "/api/payment/add", token, map[string]any{
		"card_number":     "4111111111111111",
		"cardholder_name": "Alice Traveler",
		"expiry_month":    12,
		"expiry_year":     2030,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add: got status %d: %s", w.Code, w.Body.String())
	}
	var method domain.PaymentMethod
	if err := db.Where("user_id = ?", user.ID).First(&method).Error; err != nil {
		t.Fatalf("reload method: %v", err)
	}
	if method.CardNumber != "1111" {
		t.Errorf("stored card number = %q, want last 4 digits only", method.CardNumber)
	}
	if method.CardType != "visa" {
		t.Errorf("card type = %q, want visa", method.CardType)
	}
	// First active method becomes the default
	if !method.IsDefault {
		t.Error("first method should be the default")
	}
}

func TestAddPaymentMethodRejectsBadNumbers(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	_, token := seedUser(t, db, "payer@example.com", "user")

	for _, number := range []string{"1234", "not-a-number", "41111111111111112222222"} {
		w := doJSON(t, r, http.MethodPost, "/api/payment/add", token, map[string]any{
			"card_number":     number,
			"cardholder_name": "Alice",
			"expiry_month":    12,
			"expiry_year":     2030,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("add %q: got status %d, want 400", number, w.Code)
		}
	}
	var count int64
	db.Model(&domain.PaymentMethod{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected cards persisted: %d records", count)
	}
}

func TestSetDefaultLeavesExactlyOneDefault(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "payer@example.com", "user")

	numbers := []string{"4111111111111111", "5105105105105100", "6011111111111117"}
	for _, n := range numbers {
		w := doJSON(t, r, http.MethodPost, "/api/payment/add", token, map[string]any{
			"card_number":     n,
			"cardholder_name": "Alice",
			"expiry_month":    1,
			"expiry_year":     2031,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("add %s: got status %d: %s", n, w.Code, w.Body.String())
		}
	}
	var methods []domain.PaymentMethod
	db.Where("user_id = ?", user.ID).Order("id ASC").Find(&methods)
	if len(methods) != 3 {
		t.Fatalf("got %d methods, want 3", len(methods))
	}

	// Promote the second method
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/payment/%d/default", methods[1].ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("set default: got status %d: %s", w.Code, w.Body.String())
	}
	var defaults []domain.PaymentMethod
	db.Where("user_id = ? AND is_active = ? AND is_default = ?", user.ID, true, true).Find(&defaults)
	if len(defaults) != 1 {
		t.Fatalf("got %d default methods, want exactly 1", len(defaults))
	}
	if defaults[0].ID != methods[1].ID {
		t.Errorf("default is method %d, want %d", defaults[0].ID, methods[1].ID)
	}
}

func TestSetDefaultUnknownMethod(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	_, token := seedUser(t, db, "payer@example.com", "user")

	w := doJSON(t, r, http.MethodPut, "/api/payment/99999/default", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404 for an unknown method", w.Code)
	}
}

func TestDeleteDefaultPromotesNext(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "payer@example.com", "user")

	for _, n := range []string{"4111111111111111", "5105105105105100"} {
		w := doJSON(t, r, http.MethodPost, "/api/payment/add", token, map[string]any{
			"card_number":     n,
			"cardholder_name": "Alice",
			"expiry_month":    6,
			"expiry_year":     2032,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("add %s: got status %d", n, w.Code)
		}
	}
	var current domain.PaymentMethod
	if err := db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&current).Error; err != nil {
		t.Fatalf("no default method: %v", err)
	}

	// Deleting the default promotes the remaining active method
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/payment/%d", current.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete default: got status %d: %s", w.Code, w.Body.String())
	}
	var deleted domain.PaymentMethod
	db.First(&deleted, current.ID)
	if deleted.IsActive {
		t.Error("deleted method still active; soft delete expected")
	}
	var defaults []domain.PaymentMethod
	db.Where("user_id = ? AND is_active = ? AND is_default = ?", user.ID, true, true).Find(&defaults)
	if len(defaults) != 1 {
		t.Fatalf("got %d default methods after promotion, want exactly 1", len(defaults))
	}

	// Deleting the last method leaves no default at all
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/payment/%d", defaults[0].ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete last: got status %d", w.Code)
	}
	var remaining int64
	db.Model(&domain.PaymentMethod{}).
		Where("user_id = ? AND is_active = ? AND is_default = ?", user.ID, true, true).
		Count(&remaining)
	if remaining != 0 {
		t.Errorf("got %d default methods with no active methods left, want 0", remaining)
	}
}

func TestDeletePaymentMethodForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	owner, _ := seedUser(t, db, "owner@example.com", "user")
	_, intruderToken := seedUser(t, db, "intruder@example.com", "user")

	method := domain.PaymentMethod{UserID: owner.ID, CardNumber: "1111", CardType: "visa", IsActive: true, IsDefault: true}
	if err := db.Create(&method).Error; err != nil {
		t.Fatalf("seed method: %v", err)
	}
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/payment/%d", method.ID), intruderToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: got status %d, want 403", w.Code)
	}
	var reloaded domain.PaymentMethod
	db.First(&reloaded, method.ID)
	if !reloaded.IsActive {
		t.Error("method was deactivated by a non-owner")
	}
}

func TestListPaymentMethodsExcludesDeleted(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "payer@example.com", "user")

	db.Create(&domain.PaymentMethod{UserID: user.ID, CardNumber: "1111", CardType: "visa", IsActive: true, IsDefault: true})
	db.Create(&domain.PaymentMethod{UserID: user.ID, CardNumber: "5100", CardType: "mastercard", IsActive: false})

	w := doJSON(t, r, http.MethodGet, "/api/payment/methods", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: got status %d", w.Code)
	}
	body := decodeBody(t, w)
	data := body["data"].([]any)
	if len(data) != 1 {
		t.Errorf("got %d methods, want 1 (soft-deleted excluded)", len(data))
	}
}
