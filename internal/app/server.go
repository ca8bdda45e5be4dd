package app

import (
	"net/http"

	"github.com/GoArmGo/TravelAlbum/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// publicRouter собирает маршруты публичного API галереи.
func (a *App) publicRouter() http.Handler {
	publicHandler := handler.NewPublicHandler(a.album, a.logger)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.cfg.RequestTimeout))

	r.Get("/api/locations", publicHandler.GetLocations)
	r.Get("/api/locations/{index}", publicHandler.GetLocation)

	return r
}

// adminRouter собирает маршруты админского API.
// Всё, кроме /api/login, закрыто bearer-токеном.
func (a *App) adminRouter() http.Handler {
	adminHandler := handler.NewAdminHandler(
		a.album,
		a.auth,
		a.logger,
		a.cfg.MaxUploadBytes,
		a.cfg.MaxPhotosPerCall,
	)

	r := chi.NewRouter()
	r.Use(handler.RequestLogger(a.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.cfg.RequestTimeout))

	r.Post("/api/login", adminHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(a.auth, a.logger))

		r.Put("/api/change-password", adminHandler.ChangePassword)

		r.Get("/api/locations", adminHandler.ListLocations)
		r.Put("/api/locations/sort", adminHandler.SortLocations)
		r.Post("/api/locations", adminHandler.CreateLocation)
		r.Put("/api/locations/{id}", adminHandler.UpdateLocation)
		r.Delete("/api/locations/{id}", adminHandler.DeleteLocation)

		r.Get("/api/locations/{id}/photos", adminHandler.ListPhotos)
		r.Post("/api/locations/{id}/photos", adminHandler.UploadPhotos)

		r.Put("/api/photos/sort", adminHandler.SortPhotos)
		r.Put("/api/photos/{id}", adminHandler.UpdatePhoto)
		r.Delete("/api/photos/{id}", adminHandler.DeletePhoto)
	})

	return r
}
