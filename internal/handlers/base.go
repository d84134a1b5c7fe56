package handlers

import (
	"ideaboard/internal/middleware"
	"ideaboard/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentUser returns the principal middleware.LoadUser resolved for this
// request. Handlers never read the session themselves.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	u, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	return u.(*models.User), true
}

// Error writes the uniform JSON error body.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}
