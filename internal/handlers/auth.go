package handlers

import (
	"errors"
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
	"ideaboard/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Name == "" {
		Error(c, http.StatusBadRequest, "Missing name")
		return
	}
	if input.Email == "" {
		Error(c, http.StatusBadRequest, "Missing email")
		return
	}
	if len(input.Password) < 6 {
		Error(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		Error(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "Email already registered")
			return
		}
		Error(c, http.StatusInternalServerError, "Something went wrong")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		Error(c, http.StatusBadRequest, "Missing email or password")
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		Error(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the current session principal.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
