package server

import (
	"github.com/gin-gonic/gin"
	"github.com/problog/problog/server/auth"
	"github.com/problog/problog/server/handlers"
	"github.com/problog/problog/server/middlewares"
)

// RegisterRoutes wires the full REST surface onto the router. Read endpoints
// accept anonymous requests; everything that mutates, plus hydrate, requires
// a verified session.
func RegisterRoutes(router *gin.Engine, h *handlers.Handler, a *auth.Handler) {
	api := router.Group("/api")

	api.POST("/auth/register", a.Register)
	api.POST("/auth/login", a.Login)
	api.GET("/auth/google", a.GoogleLogin)
	api.GET("/auth/google/callback", a.GoogleCallback)

	public := api.Group("", middlewares.OptionalJWT())
	public.GET("/posts", h.ListPosts)
	public.GET("/posts/:id", h.GetPost)
	public.GET("/users/:id", h.GetUser)
	public.GET("/users/:id/liked", h.LikedPosts)
	public.GET("/users/:id/collections", h.CollectionPosts)

	protected := api.Group("", middlewares.JWT())
	protected.POST("/auth/refresh-session", a.RefreshSession)
	protected.POST("/posts", h.CreatePost)
	protected.PUT("/posts/:id", h.UpdatePost)
	protected.DELETE("/posts/:id", h.DeletePost)
	protected.POST("/posts/:id/like", h.ToggleLike)
	protected.POST("/posts/:id/collect", h.ToggleCollection)
	protected.PUT("/users/:id", h.UpdateUser)
	protected.DELETE("/users/:id", h.DeleteUser)
	protected.GET("/users/:id/hydrate", h.HydrateUser)
	protected.POST("/upload", h.Upload)
}
