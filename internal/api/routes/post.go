package routes

import (
	"Murmur/internal/api/handlers/post"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers post endpoints on the router
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	listHandler := post.NewListHandler(service)
	repliesHandler := post.NewRepliesHandler(service)
	searchHandler := post.NewSearchHandler(service)
	feedHandler := post.NewFeedHandler(service)

	// Reads are public, but drafts resolve only for their owner, so
	// read routes still load the principal when one is present.
	r.With(authMiddleware.OptionalAuth).Get("/v1/posts", listHandler.HandleList)
	r.With(authMiddleware.OptionalAuth).Get("/v1/posts/search", searchHandler.HandleSearch)
	r.With(authMiddleware.OptionalAuth).Get("/v1/posts/{postID}", getHandler.HandleGet)
	r.With(authMiddleware.OptionalAuth).Get("/v1/posts/{postID}/replies", repliesHandler.HandleListReplies)

	// Writes require an authenticated principal.
	r.With(authMiddleware.RequireAuth).Post("/v1/posts", createHandler.HandleCreate)
	r.With(authMiddleware.RequireAuth).Patch("/v1/posts/{postID}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/v1/posts/{postID}", deleteHandler.HandleDelete)

	// The follow feed keys off the principal's active blog.
	r.With(authMiddleware.RequireAuth).Get("/v1/feed", feedHandler.HandleFeed)
}
