package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tastebook/internal/handlers"
	applog "tastebook/internal/log"
)

// newRouter wires every resource controller onto a chi router. Routes that
// mutate state sit behind the bearer-token middleware; admin routes
// additionally require the admin flag.
func newRouter(api *handlers.API, uploadsDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)

	r.Get("/healthz", api.Health)

	// public surface
	r.Post("/user", api.Register)
	r.Post("/user/auth", api.Login)
	r.Get("/user/{id:[0-9]+}", api.ShowUser)
	r.Get("/recipe/{id:[0-9]+}", api.ShowRecipe)
	r.Get("/recipe/recent/{page}/{limit}", api.RecentRecipes)
	r.Get("/recipe/top/{page}/{limit}", api.TopRecipes)
	r.Get("/recipe/name/{name}/{page}/{limit}", api.RecipesByName)
	r.Get("/recipe/review/{id:[0-9]+}", api.ShowReview)
	r.Get("/recipe/review/{id:[0-9]+}/{page}/{limit}", api.RecipeReviews)
	r.Get("/rating/{id:[0-9]+}", api.ShowRating)
	r.Get("/categories/{id:[0-9]+}", api.ShowCategory)
	r.Get("/categories/{page}/{limit}", api.ListCategories)

	// authenticated surface
	r.Group(func(r chi.Router) {
		r.Use(api.RequireAuth)

		r.Put("/user", api.UpdateProfile)
		r.Delete("/user", api.DeleteAccount)

		r.Post("/recipe", api.CreateRecipe)
		r.Put("/recipe", api.UpdateRecipe)
		r.Delete("/recipe/{id:[0-9]+}", api.DeleteRecipe)

		r.Post("/rating", api.CreateRating)
		r.Put("/rating", api.UpdateRating)
		r.Delete("/rating/{id:[0-9]+}", api.DeleteRating)

		r.Post("/recipe/review", api.CreateReview)
		r.Put("/recipe/review", api.UpdateReview)
		r.Delete("/recipe/review/{id:[0-9]+}", api.DeleteReview)

		r.Post("/recipe/favorite", api.CreateFavorite)
		r.Delete("/recipe/favorite/{id:[0-9]+}", api.DeleteFavorite)
		r.Get("/recipe/favorite/{page}/{limit}", api.ListFavorites)

		r.Post("/category", api.CreateCategory)
		r.Put("/category", api.UpdateCategory)
		r.Delete("/category/{id:[0-9]+}", api.DeleteCategory)
	})

	// admin surface
	r.Group(func(r chi.Router) {
		r.Use(api.RequireAuth)
		r.Use(api.RequireAdmin)

		r.Put("/user/admin", api.PromoteAdmin)
		r.Put("/user/admin/remove", api.DemoteAdmin)
	})

	if uploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	return r
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		applog.Debug(r.Context(), "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
		)
	})
}
