package api

import (
	"net/http"
	"testing"

	"travelhub/internal/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)

	payload := map[string]any{
		"name":     "Alice Traveler",
		"email":    "alice@example.com",
		"phone":    "5551234567",
		"password": "longenough",
	}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: got status %d, want 201: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("register: success = %v, want true", body["success"])
	}
	if body["token"] == nil || body["token"] == "" {
		t.Error("register: expected a token in the response")
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("register: missing user view in response: %v", body)
	}
	if _, leaked := user["password"]; leaked {
		t.Error("register: password must never appear in the user view")
	}

	// Login with the same credentials
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "longenough",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: got status %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateEmailCreatesNoRecord(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)

	payload := map[string]any{
		"name":     "Alice",
		"email":    "a@x.com",
		"phone":    "5551234567",
		"password": "longenough",
	}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", payload); w.Code != http.StatusCreated {
		t.Fatalf("first register: got status %d: %s", w.Code, w.Body.String())
	}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: got status %d, want 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("duplicate register: success = %v, want false", body["success"])
	}

	var count int64
	db.Model(&domain.User{}).Where("email = ?", "a@x.com").Count(&count)
	if count != 1 {
		t.Errorf("duplicate register: %d records for the email, want exactly 1", count)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"short password", map[string]any{"name": "Al", "email": "b@x.com", "phone": "5551234567", "password": "short"}},
		{"bad email", map[string]any{"name": "Al", "email": "not-an-email", "phone": "5551234567", "password": "longenough"}},
		{"bad phone", map[string]any{"name": "Al", "email": "c@x.com", "phone": "abc", "password": "longenough"}},
		{"short name", map[string]any{"name": "A", "email": "d@x.com", "phone": "5551234567", "password": "longenough"}},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tc.payload)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", tc.name, w.Code)
			continue
		}
		body := decodeBody(t, w)
		if body["errors"] == nil {
			t.Errorf("%s: expected a field-level errors array", tc.name)
		}
	}
}

func TestLoginGenericFailureMessage(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	seedUser(t, db, "bob@example.com", "user")

	// Unknown email and wrong password must be indistinguishable
	wUnknown := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "password123",
	})
	wWrong := doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "bob@example.com", "password": "wrongpassword",
	})
	if wUnknown.Code != http.StatusUnauthorized || wWrong.Code != http.StatusUnauthorized {
		t.Fatalf("got statuses %d and %d, want 401 for both", wUnknown.Code, wWrong.Code)
	}
	msgUnknown := decodeBody(t, wUnknown)["error"]
	msgWrong := decodeBody(t, wWrong)["error"]
	if msgUnknown != msgWrong {
		t.Errorf("login failure messages differ: %q vs %q", msgUnknown, msgWrong)
	}
}

func TestMeRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	_, token := seedUser(t, db, "carol@example.com", "user")

	if w := doJSON(t, r, http.MethodGet, "/api/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me without token: got status %d, want 401", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/auth/me", "garbage-token", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("me with bad token: got status %d, want 401", w.Code)
	}
	w := doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: got status %d, want 200: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user := body["user"].(map[string]any)
	if user["email"] != "carol@example.com" {
		t.Errorf("me: email = %v, want carol@example.com", user["email"])
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "dave@example.com", "user")

	w := doJSON(t, r, http.MethodPut, "/api/auth/profile", token, map[string]any{
		"bio":      "Always on the road",
		"location": "Lisbon",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("profile update: got status %d: %s", w.Code, w.Body.String())
	}
	var updated domain.User
	if err := db.First(&updated, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.Bio != "Always on the road" || updated.Location != "Lisbon" {
		t.Errorf("profile not persisted: bio=%q location=%q", updated.Bio, updated.Location)
	}
	if updated.Name != user.Name {
		t.Errorf("name changed unexpectedly: %q", updated.Name)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(t, db, nil)
	user, token := seedUser(t, db, "eve@example.com", "user")

	db.Create(&domain.Review{UserID: user.ID, Target: "bali", Rating: 5, Title: "Great", Comment: "Loved it"})
	db.Create(&domain.PaymentMethod{UserID: user.ID, CardNumber: "1111", CardType: "visa", IsActive: true, IsDefault: true})

	w := doJSON(t, r, http.MethodDelete, "/api/auth/account", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete account: got status %d: %s", w.Code, w.Body.String())
	}
	var users, reviews, methods int64
	db.Model(&domain.User{}).Where("id = ?", user.ID).Count(&users)
	db.Model(&domain.Review{}).Where("user_id = ?", user.ID).Count(&reviews)
	db.Model(&domain.PaymentMethod{}).Where("user_id = ?", user.ID).Count(&methods)
	if users != 0 || reviews != 0 || methods != 0 {
		t.Errorf("cascade incomplete: users=%d reviews=%d methods=%d", users, reviews, methods)
	}
}
