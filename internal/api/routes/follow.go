package routes

import (
	"Murmur/internal/api/handlers/follow"
	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"
	"Murmur/internal/core/follows"

	"github.com/go-chi/chi/v5"
)

// RegisterFollowRoutes registers follow endpoints on the router
func RegisterFollowRoutes(r chi.Router, service follows.Service, blogService blogs.Service, authMiddleware *middleware.AuthMiddleware) {
	followHandler := follow.NewFollowHandler(service)
	listHandler := follow.NewListHandler(service, blogService)

	// Edge mutations act as the principal's active blog.
	r.With(authMiddleware.RequireAuth).Post("/v1/follows", followHandler.HandleFollow)
	r.With(authMiddleware.RequireAuth).Delete("/v1/follows/{blogName}", followHandler.HandleUnfollow)
	r.With(authMiddleware.RequireAuth).Patch("/v1/follows/{blogName}", followHandler.HandleUpdate)

	// Follow listings are public, keyed by blog name.
	r.Get("/v1/blogs/{blogName}/following", listHandler.HandleListFollowing)
	r.Get("/v1/blogs/{blogName}/followers", listHandler.HandleListFollowers)
}
