package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tastebook/models"
)

func TestRegisterCreatesAccountWithToken(t *testing.T) {
	api := newTestAPI(t)

	req := jsonRequest(t, http.MethodPost, "/user", map[string]interface{}{
		"name":                 "Alice",
		"email":                "Alice@Example.com",
		"password":             "secret1",
		"passwordConfirmation": "secret1",
	})
	rr := httptest.NewRecorder()
	api.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := userResponse{}
	decodeResponse(t, rr, &resp)
	if resp.ID == 0 {
		t.Fatal("expected a persisted user id")
	}
	if resp.Email != "alice@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.Email)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the registration response")
	}
	if resp.ImageURL != nil {
		t.Fatalf("expected null image url, got %q", *resp.ImageURL)
	}

	claims, err := api.tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("returned token failed verification: %v", err)
	}
	if claims.UserID != resp.ID {
		t.Fatalf("token carries user %d, want %d", claims.UserID, resp.ID)
	}

	stored := &models.User{}
	if err := api.db.First(stored, resp.ID).Error; err != nil {
		t.Fatalf("failed to load stored user: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatal("password must not be stored in plain text")
	}
}

func TestRegisterReportsEveryValidationFailure(t *testing.T) {
	api := newTestAPI(t)

	req := jsonRequest(t, http.MethodPost, "/user", map[string]interface{}{
		"email":                "not-an-email",
		"password":             "abc",
		"passwordConfirmation": "xyz",
	})
	rr := httptest.NewRecorder()
	api.Register(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	resp := errorsResponse{}
	decodeResponse(t, rr, &resp)
	if len(resp.Errors) < 3 {
		t.Fatalf("expected name, email, password, and confirmation failures together, got %v", resp.Errors)
	}
	joined := strings.Join(resp.Errors, "; ")
	for _, want := range []string{
		"name has not been informed",
		"must be a valid e-mail address",
		"must be at least 6 characters",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %v", want, resp.Errors)
		}
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	api := newTestAPI(t)
	seedUser(t, api, "Alice", "alice@example.com", false)

	req := jsonRequest(t, http.MethodPost, "/user", map[string]interface{}{
		"name":                 "Impostor",
		"email":                "alice@example.com",
		"password":             "secret1",
		"passwordConfirmation": "secret1",
	})
	rr := httptest.NewRecorder()
	api.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
	assertErrorMessage(t, rr, "Account already exists")
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	user := seedUser(t, api, "Alice", "alice@example.com", false)

	t.Run("valid credentials", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/user/auth", map[string]interface{}{
			"email":    "Alice@Example.com",
			"password": "password123",
		})
		rr := httptest.NewRecorder()
		api.Login(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		resp := userResponse{}
		decodeResponse(t, rr, &resp)
		if resp.ID != user.ID {
			t.Fatalf("expected user %d, got %d", user.ID, resp.ID)
		}
		if resp.Token == "" {
			t.Fatal("expected a token in the login response")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/user/auth", map[string]interface{}{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		rr := httptest.NewRecorder()
		api.Login(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		assertErrorMessage(t, rr, "Invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/user/auth", map[string]interface{}{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		rr := httptest.NewRecorder()
		api.Login(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		assertErrorMessage(t, rr, "Invalid email or password")
	})
}

func TestShowUser(t *testing.T) {
	api := newTestAPI(t)
	user := seedUser(t, api, "Alice", "alice@example.com", false)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/user/1", nil),
		map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	api.ShowUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := userResponse{}
	decodeResponse(t, rr, &resp)
	if resp.ID != user.ID || resp.Name != "Alice" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
	if resp.Token != "" {
		t.Fatal("public profile must not carry a token")
	}
}

func TestShowUserNotFound(t *testing.T) {
	api := newTestAPI(t)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/user/99", nil),
		map[string]string{"id": "99"})
	rr := httptest.NewRecorder()
	api.ShowUser(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	assertErrorMessage(t, rr, "User not found")
}

func TestUpdateProfileChangesNameAndPassword(t *testing.T) {
	api := newTestAPI(t)
	user := seedUser(t, api, "Alice", "alice@example.com", false)

	req := asUser(jsonRequest(t, http.MethodPut, "/user", map[string]interface{}{
		"name":                 "Alicia",
		"password":             "newsecret",
		"passwordConfirmation": "newsecret",
	}), user.ID)
	rr := httptest.NewRecorder()
	api.UpdateProfile(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	loginReq := jsonRequest(t, http.MethodPost, "/user/auth", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "newsecret",
	})
	loginRR := httptest.NewRecorder()
	api.Login(loginRR, loginReq)
	if loginRR.Code != http.StatusOK {
		t.Fatalf("expected new password to work, got %d", loginRR.Code)
	}

	stored := &models.User{}
	if err := api.db.First(stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.Name != "Alicia" {
		t.Fatalf("expected renamed user, got %q", stored.Name)
	}
}

func TestRegisterReusesEmailOfDeletedAccount(t *testing.T) {
	api := newTestAPI(t)
	user := seedUser(t, api, "Alice", "alice@example.com", false)

	req := asUser(httptest.NewRequest(http.MethodDelete, "/user", nil), user.ID)
	rr := httptest.NewRecorder()
	api.DeleteAccount(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from deletion, got %d: %s", rr.Code, rr.Body.String())
	}

	// The email is free again once the account is gone.
	rr = httptest.NewRecorder()
	api.Register(rr, jsonRequest(t, http.MethodPost, "/user", map[string]interface{}{
		"name":                 "Alice",
		"email":                "alice@example.com",
		"password":             "secret1",
		"passwordConfirmation": "secret1",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 when re-registering a deleted email, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestDeleteAccountCascadesAndRecomputesRatings(t *testing.T) {
	api := newTestAPI(t)
	alice := seedUser(t, api, "Alice", "alice@example.com", false)
	bob := seedUser(t, api, "Bob", "bob@example.com", false)

	aliceRecipe := seedRecipe(t, api, alice, "Sourdough")
	bobRecipe := seedRecipe(t, api, bob, "Focaccia")

	// Bob rated Alice's recipe, Alice rated Bob's.
	seedRating(t, api, bob.ID, aliceRecipe.ID, 4)
	seedRating(t, api, alice.ID, bobRecipe.ID, 5)

	if got := recipeRating(t, api, aliceRecipe.ID); got != 4 {
		t.Fatalf("expected mean 4 before deletion, got %v", got)
	}

	req := asUser(httptest.NewRequest(http.MethodDelete, "/user", nil), bob.ID)
	rr := httptest.NewRecorder()
	api.DeleteAccount(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Bob's own recipe and its ratings are gone.
	var recipeCount int64
	if err := api.db.Model(&models.Recipe{}).Where("id = ?", bobRecipe.ID).Count(&recipeCount).Error; err != nil {
		t.Fatalf("failed to count recipes: %v", err)
	}
	if recipeCount != 0 {
		t.Fatal("expected the deleted user's recipe to be removed")
	}

	// Alice's recipe lost its only rating, so its mean resets to 0.
	if got := recipeRating(t, api, aliceRecipe.ID); got != 0 {
		t.Fatalf("expected mean 0 after rater deletion, got %v", got)
	}

	var userCount int64
	if err := api.db.Model(&models.User{}).Where("id = ?", bob.ID).Count(&userCount).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if userCount != 0 {
		t.Fatal("expected the account row to be removed")
	}
}
