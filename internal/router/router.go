package router

import (
	"ideaboard/internal/handlers"
	"ideaboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	ideaHandler := handlers.NewIdeaHandler()
	voteHandler := handlers.NewVoteHandler()
	commentHandler := handlers.NewCommentHandler()
	userHandler := handlers.NewUserHandler()
	adminHandler := handlers.NewAdminHandler()

	api := r.Group("/api")

	// Public routes
	api.GET("/ideas", ideaHandler.List)
	api.GET("/ideas/:id", ideaHandler.Detail)
	api.GET("/comments", commentHandler.List)

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/auth/me", authHandler.Me)

		authorized.POST("/ideas", ideaHandler.Create)
		authorized.PATCH("/ideas/:id", ideaHandler.UpdateStatus) // admin, enforced in handler
		authorized.DELETE("/ideas/:id", ideaHandler.Delete)      // owner or admin

		authorized.POST("/ideas/:id/comments", commentHandler.CreateForIdea)
		authorized.POST("/comments", commentHandler.Create)

		authorized.POST("/vote", voteHandler.Toggle)

		authorized.PATCH("/users/:id", userHandler.Update) // self only
	}

	// Back-office routes, one group per resource instead of the old
	// type-keyed dispatch
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.GET("/categories", adminHandler.ListCategories)
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.PUT("/categories/:id", adminHandler.UpdateCategory)
		admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/ideas", adminHandler.ListIdeas)
		admin.PUT("/ideas/:id", adminHandler.UpdateIdea)
		admin.DELETE("/ideas/:id", adminHandler.DeleteIdea)

		admin.DELETE("/comments/:id", adminHandler.DeleteComment)
	}
}
