package handlers

import (
	"time"

	"tastebook/models"
)

// View shaping: pure mappings from persisted records to response payloads.
// Image fields hold absolute URLs built by the upload store, or null when the
// record has no image.

type userResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Token    string  `json:"token,omitempty"`
	ImageURL *string `json:"imageUrl"`
}

type adminUserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

type recipeOwnerView struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type stepResponse struct {
	ID       uint   `json:"id"`
	Position int    `json:"position"`
	Content  string `json:"content"`
}

type recipeResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	ImageURL        *string         `json:"imageUrl"`
	Description     string          `json:"description"`
	Ingredients     string          `json:"ingredients"`
	Steps           []stepResponse  `json:"steps"`
	PreparationTime int             `json:"preparationTime"`
	Serves          int             `json:"serves"`
	Rating          float64         `json:"rating"`
	User            recipeOwnerView `json:"user"`
	Category        string          `json:"category"`
}

type recipeSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	ImageURL    *string `json:"imageUrl"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
}

type recipeListResponse struct {
	Recipes []recipeSummary `json:"recipes"`
	Next    *pageLink       `json:"next"`
}

type ratingResponse struct {
	ID       uint    `json:"id"`
	UserID   uint    `json:"userId"`
	RecipeID uint    `json:"recipeId"`
	Rating   float64 `json:"rating"`
}

type reviewAuthorView struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type reviewResponse struct {
	ID        uint             `json:"id"`
	RecipeID  uint             `json:"recipeId"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
	User      reviewAuthorView `json:"user"`
}

type reviewListResponse struct {
	Reviews []reviewResponse `json:"reviews"`
	Next    *pageLink        `json:"next"`
}

type favoriteResponse struct {
	ID        uint          `json:"id"`
	Recipe    recipeSummary `json:"recipe"`
	CreatedAt time.Time     `json:"createdAt"`
}

type favoriteListResponse struct {
	Favorites []favoriteResponse `json:"favorites"`
	Next      *pageLink          `json:"next"`
}

type categoryResponse struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

type categoryListResponse struct {
	Categories []categoryResponse `json:"categories"`
	Next       *pageLink          `json:"next"`
}

func (a *API) renderUser(user *models.User, token string) userResponse {
	return userResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Token:    token,
		ImageURL: a.images.URL(user.ProfileImageURL),
	}
}

func renderAdminUser(user *models.User) adminUserResponse {
	return adminUserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Admin: user.Admin,
	}
}

func renderSteps(steps []models.Step) []stepResponse {
	rendered := make([]stepResponse, 0, len(steps))
	for _, step := range steps {
		rendered = append(rendered, stepResponse{
			ID:       step.ID,
			Position: step.Position,
			Content:  step.Content,
		})
	}
	return rendered
}

func (a *API) renderRecipe(recipe *models.Recipe) recipeResponse {
	categoryName := ""
	if recipe.Category != nil {
		categoryName = recipe.Category.Name
	}

	return recipeResponse{
		ID:              recipe.ID,
		Name:            recipe.Name,
		ImageURL:        a.images.URL(recipe.ImageURL),
		Description:     recipe.Description,
		Ingredients:     recipe.Ingredients,
		Steps:           renderSteps(recipe.Steps),
		PreparationTime: recipe.PreparationTime,
		Serves:          recipe.Serves,
		Rating:          recipe.Rating,
		User: recipeOwnerView{
			Name:     recipe.User.Name,
			ImageURL: a.images.URL(recipe.User.ProfileImageURL),
		},
		Category: categoryName,
	}
}

func (a *API) renderRecipeSummary(recipe *models.Recipe) recipeSummary {
	categoryName := ""
	if recipe.Category != nil {
		categoryName = recipe.Category.Name
	}

	return recipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		ImageURL:    a.images.URL(recipe.ImageURL),
		Description: recipe.Description,
		Rating:      recipe.Rating,
		Category:    categoryName,
	}
}

func (a *API) renderRecipeList(recipes []models.Recipe, page pageRequest) recipeListResponse {
	summaries := make([]recipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, a.renderRecipeSummary(&recipes[i]))
	}
	return recipeListResponse{Recipes: summaries, Next: page.next(len(recipes))}
}

func renderRating(rating *models.UserRating) ratingResponse {
	return ratingResponse{
		ID:       rating.ID,
		UserID:   rating.UserID,
		RecipeID: rating.RecipeID,
		Rating:   rating.Rating,
	}
}

func (a *API) renderReview(review *models.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		RecipeID:  review.RecipeID,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
		User: reviewAuthorView{
			ID:       review.User.ID,
			Name:     review.User.Name,
			ImageURL: a.images.URL(review.User.ProfileImageURL),
		},
	}
}

func (a *API) renderFavorite(favorite *models.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:        favorite.ID,
		Recipe:    a.renderRecipeSummary(&favorite.Recipe),
		CreatedAt: favorite.CreatedAt,
	}
}

func (a *API) renderCategory(category *models.Category) categoryResponse {
	return categoryResponse{
		ID:       category.ID,
		Name:     category.Name,
		ImageURL: a.images.URL(category.ImageURL),
	}
}
