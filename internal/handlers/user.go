package handlers

import (
	"errors"
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type updateProfileInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Update changes the caller's own profile. Strictly self-scoped: even an
// admin cannot edit someone else's profile through this endpoint (the back
// office has its own user routes).
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	targetID := utils.StringToUint(c.Param("id"))
	if targetID != user.ID {
		Error(c, http.StatusForbidden, "Forbidden")
		return
	}

	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			Error(c, http.StatusBadRequest, "Missing name")
			return
		}
		updates["name"] = *input.Name
	}

	if input.Email != nil {
		if *input.Email == "" {
			Error(c, http.StatusBadRequest, "Missing email")
			return
		}
		updates["email"] = *input.Email
	}

	if input.Password != nil {
		if len(*input.Password) < 6 {
			Error(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			Error(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		// The unique index on email is the guard, not a pre-check; a losing
		// concurrent change surfaces here too.
		if err := db.DB.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Error(c, http.StatusBadRequest, "Email already in use")
				return
			}
			Error(c, http.StatusInternalServerError, "Failed to update user")
			return
		}
	}

	c.JSON(http.StatusOK, user)
}
