package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tastebook/models"
)

func TestCreateFavorite(t *testing.T) {
	api := newTestAPI(t)
	owner := seedUser(t, api, "Owner", "owner@example.com", false)
	carol := seedUser(t, api, "Carol", "carol@example.com", false)
	recipe := seedRecipe(t, api, owner, "Ramen")

	req := asUser(jsonRequest(t, http.MethodPost, "/recipe/favorite", map[string]interface{}{
		"recipeId": recipe.ID,
	}), carol.ID)
	rr := httptest.NewRecorder()
	api.CreateFavorite(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := favoriteResponse{}
	decodeResponse(t, rr, &resp)
	if resp.Recipe.ID != recipe.ID || resp.Recipe.Name != "Ramen" {
		t.Fatalf("expected the bookmarked recipe in the payload, got %+v", resp)
	}
}

func TestCreateFavoriteUnknownRecipe(t *testing.T) {
	api := newTestAPI(t)
	carol := seedUser(t, api, "Carol", "carol@example.com", false)

	req := asUser(jsonRequest(t, http.MethodPost, "/recipe/favorite", map[string]interface{}{
		"recipeId": 42,
	}), carol.ID)
	rr := httptest.NewRecorder()
	api.CreateFavorite(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	assertErrorMessage(t, rr, "Recipe not found")
}

func TestDeleteFavoriteOnlyOwn(t *testing.T) {
	api := newTestAPI(t)
	owner := seedUser(t, api, "Owner", "owner@example.com", false)
	carol := seedUser(t, api, "Carol", "carol@example.com", false)
	dave := seedUser(t, api, "Dave", "dave@example.com", false)
	recipe := seedRecipe(t, api, owner, "Ramen")

	favorite := &models.Favorite{UserID: carol.ID, RecipeID: recipe.ID}
	if err := api.db.Create(favorite).Error; err != nil {
		t.Fatalf("failed to seed favorite: %v", err)
	}

	target := fmt.Sprintf("/recipe/favorite/%d", favorite.ID)
	params := map[string]string{"id": fmt.Sprint(favorite.ID)}

	rr := httptest.NewRecorder()
	api.DeleteFavorite(rr, asUser(withURLParams(
		httptest.NewRequest(http.MethodDelete, target, nil), params), dave.ID))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's favorite, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	api.DeleteFavorite(rr, asUser(withURLParams(
		httptest.NewRequest(http.MethodDelete, target, nil), params), carol.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for the bookmark's owner, got %d: %s", rr.Code, rr.Body.String())
	}

	var count int64
	if err := api.db.Model(&models.Favorite{}).Where("id = ?", favorite.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count favorites: %v", err)
	}
	if count != 0 {
		t.Fatal("expected the favorite to be removed")
	}
}

func TestListFavoritesOnlyOwnPaged(t *testing.T) {
	api := newTestAPI(t)
	owner := seedUser(t, api, "Owner", "owner@example.com", false)
	carol := seedUser(t, api, "Carol", "carol@example.com", false)
	dave := seedUser(t, api, "Dave", "dave@example.com", false)

	for i := 1; i <= 3; i++ {
		recipe := seedRecipe(t, api, owner, fmt.Sprintf("Recipe %d", i))
		favorite := &models.Favorite{UserID: carol.ID, RecipeID: recipe.ID}
		if err := api.db.Create(favorite).Error; err != nil {
			t.Fatalf("failed to seed favorite: %v", err)
		}
	}
	daveRecipe := seedRecipe(t, api, owner, "Dave Only")
	if err := api.db.Create(&models.Favorite{UserID: dave.ID, RecipeID: daveRecipe.ID}).Error; err != nil {
		t.Fatalf("failed to seed favorite: %v", err)
	}

	req := asUser(withURLParams(httptest.NewRequest(http.MethodGet, "/recipe/favorite/1/2", nil),
		map[string]string{"page": "1", "limit": "2"}), carol.ID)
	rr := httptest.NewRecorder()
	api.ListFavorites(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := favoriteListResponse{}
	decodeResponse(t, rr, &resp)
	if len(resp.Favorites) != 2 {
		t.Fatalf("expected 2 favorites on page 1, got %d", len(resp.Favorites))
	}
	if resp.Favorites[0].Recipe.Name != "Recipe 1" {
		t.Fatalf("expected oldest bookmark first, got %+v", resp.Favorites[0])
	}
	if resp.Next == nil || resp.Next.Page != 2 {
		t.Fatalf("expected a next page link, got %+v", resp.Next)
	}

	req = asUser(withURLParams(httptest.NewRequest(http.MethodGet, "/recipe/favorite/2/2", nil),
		map[string]string{"page": "2", "limit": "2"}), carol.ID)
	rr = httptest.NewRecorder()
	api.ListFavorites(rr, req)

	resp = favoriteListResponse{}
	decodeResponse(t, rr, &resp)
	if len(resp.Favorites) != 1 {
		t.Fatalf("expected 1 favorite on the last page, got %d", len(resp.Favorites))
	}
	for _, fav := range resp.Favorites {
		if fav.Recipe.Name == "Dave Only" {
			t.Fatal("another user's bookmark leaked into the listing")
		}
	}
	if resp.Next != nil {
		t.Fatalf("expected no next link on the last page, got %+v", resp.Next)
	}
}
