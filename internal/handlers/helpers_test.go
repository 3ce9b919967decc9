package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tastebook/internal/db"
	"tastebook/internal/storage"
	"tastebook/internal/token"
	"tastebook/models"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	images, err := storage.New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("failed to build upload store: %v", err)
	}

	tokens, err := token.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("failed to build token manager: %v", err)
	}

	return New(database, tokens, images)
}

func seedUser(t *testing.T, api *API, name, email string, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Admin:        admin,
	}
	if err := api.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedRecipe(t *testing.T, api *API, owner *models.User, name string) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:          owner.ID,
		Name:            name,
		Description:     "A test dish",
		Ingredients:     "flour, water, salt",
		PreparationTime: 30,
		Serves:          2,
	}
	if err := api.db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return recipe
}

func seedRating(t *testing.T, api *API, userID, recipeID uint, value float64) *models.UserRating {
	t.Helper()

	rating := &models.UserRating{UserID: userID, RecipeID: recipeID, Rating: value}
	if err := api.db.Create(rating).Error; err != nil {
		t.Fatalf("failed to seed rating: %v", err)
	}
	if err := recomputeRecipeRating(api.db, recipeID); err != nil {
		t.Fatalf("failed to recompute recipe rating: %v", err)
	}
	return rating
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser stamps the request context the way RequireAuth would after
// verifying a token.
func asUser(req *http.Request, id uint) *http.Request {
	return req.WithContext(withUserID(req.Context(), id))
}

// withURLParams attaches chi route parameters so handlers can read them
// without going through a router.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rr.Body.String(), err)
	}
}

func assertErrorMessage(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	resp := errorResponse{}
	decodeResponse(t, rr, &resp)
	if resp.Error != want {
		t.Fatalf("expected error %q, got %q", want, resp.Error)
	}
}

func recipeRating(t *testing.T, api *API, recipeID uint) float64 {
	t.Helper()
	recipe := &models.Recipe{}
	if err := api.db.First(recipe, recipeID).Error; err != nil {
		t.Fatalf("failed to load recipe %d: %v", recipeID, err)
	}
	return recipe.Rating
}
