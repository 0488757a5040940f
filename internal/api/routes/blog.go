package routes

import (
	"Murmur/internal/api/handlers/blog"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"

	"github.com/go-chi/chi/v5"
)

// RegisterBlogRoutes registers blog endpoints on the router
func RegisterBlogRoutes(r chi.Router, service blogs.Service, authMiddleware *middleware.AuthMiddleware) {
	getHandler := blog.NewGetHandler(service)
	createHandler := blog.NewCreateHandler(service)
	updateHandler := blog.NewUpdateHandler(service)
	listHandler := blog.NewListHandler(service)
	registerHandler := blog.NewRegisterHandler(service)

	// Public blog directory lookup.
	r.Get("/v1/blogs/{blogName}", getHandler.HandleGet)

	// Everything else acts on the caller's own blogs.
	r.With(authMiddleware.RequireAuth).Get("/v1/blogs", listHandler.HandleListMine)
	r.With(authMiddleware.RequireAuth).Post("/v1/blogs", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Post("/v1/blogs/register", registerHandler.HandleRegister)
	r.With(authMiddleware.RequireAuth).Patch("/v1/blogs/{blogID}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Post("/v1/blogs/{blogID}/activate", updateHandler.HandleActivate)
}
