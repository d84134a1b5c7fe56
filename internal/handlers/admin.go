package handlers

import (
	"errors"
	"log"
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
	"ideaboard/internal/services"
	"ideaboard/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler carries the back-office CRUD. Routes are registered per
// resource, so an unsupported resource is an unmatched route instead of a
// runtime default case. All routes sit behind middleware.AdminRequired.
type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// --- Dashboard ---

func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := services.BuildDashboard()
	if err != nil {
		log.Printf("Error building dashboard: %v", err)
		Error(c, http.StatusInternalServerError, "Error fetching dashboard data")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// --- Categories ---

func (h *AdminHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.DB.Order("id ASC").Find(&categories).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

type categoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	admin, _ := CurrentUser(c)

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" {
		Error(c, http.StatusBadRequest, "Missing name")
		return
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   &admin.ID,
	}
	if err := db.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "Category already exists")
			return
		}
		Error(c, http.StatusInternalServerError, "Error creating category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := db.DB.First(&category, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "Category not found")
		return
	}

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Name == "" {
		Error(c, http.StatusBadRequest, "Missing name")
		return
	}

	updates := map[string]interface{}{"name": input.Name, "description": input.Description}
	if err := db.DB.Model(&category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "Category already exists")
			return
		}
		Error(c, http.StatusInternalServerError, "Error updating category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := db.DB.First(&category, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "Category not found")
		return
	}

	// The FK on ideas.category_id is RESTRICT, but not every driver reports
	// the violation as gorm.ErrForeignKeyViolated, so count first.
	var inUse int64
	if err := db.DB.Model(&models.Idea{}).Where("category_id = ?", category.ID).Count(&inUse).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error deleting category")
		return
	}
	if inUse > 0 {
		Error(c, http.StatusConflict, "Category still has ideas")
		return
	}

	if err := db.DB.Delete(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			Error(c, http.StatusConflict, "Category still has ideas")
			return
		}
		Error(c, http.StatusInternalServerError, "Error deleting category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// --- Users ---

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := db.DB.Order("id ASC").Find(&users).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}

type adminUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var input adminUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Email == "" {
		Error(c, http.StatusBadRequest, "Missing email")
		return
	}
	if input.Name == "" {
		Error(c, http.StatusBadRequest, "Missing name")
		return
	}
	if len(input.Password) < 6 {
		Error(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		Error(c, http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		Error(c, http.StatusInternalServerError, "Error creating user")
		return
	}

	user := models.User{Name: input.Name, Email: input.Email, Password: hash, Role: role}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Error(c, http.StatusConflict, "Email already registered")
			return
		}
		Error(c, http.StatusInternalServerError, "Error creating user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

type adminUserUpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "User not found")
		return
	}

	var input adminUserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Role != nil {
		if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
			Error(c, http.StatusBadRequest, "Invalid role")
			return
		}
		updates["role"] = *input.Role
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			Error(c, http.StatusInternalServerError, "Error updating user")
			return
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				Error(c, http.StatusConflict, "Email already registered")
				return
			}
			Error(c, http.StatusInternalServerError, "Error updating user")
			return
		}
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes the account and anonymizes what it leaves behind: the
// user's votes and comments go away, authored ideas move to the sentinel.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	var user models.User
	if err := db.DB.First(&user, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "User not found")
		return
	}

	if user.Email == models.AnonymousEmail {
		Error(c, http.StatusBadRequest, "Cannot delete the anonymous user")
		return
	}

	if err := services.DeleteUserCascade(user.ID); err != nil {
		log.Printf("Error deleting user %d: %v", user.ID, err)
		Error(c, http.StatusInternalServerError, "Error deleting user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted and associated data anonymized"})
}

// --- Ideas ---

func (h *AdminHandler) ListIdeas(c *gin.Context) {
	var ideas []models.Idea
	if err := db.DB.Preload("Author").Preload("Category").
		Order("created_at DESC").
		Find(&ideas).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error fetching ideas")
		return
	}
	fillIdeaCounts(ideas)
	c.JSON(http.StatusOK, ideas)
}

type adminIdeaInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *AdminHandler) UpdateIdea(c *gin.Context) {
	var idea models.Idea
	if err := db.DB.First(&idea, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	var input adminIdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil && *input.Title != "" {
		updates["title"] = *input.Title
	}
	if input.Description != nil && *input.Description != "" {
		updates["description"] = utils.SanitizeHTML(*input.Description)
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			Error(c, http.StatusBadRequest, "Invalid status")
			return
		}
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&idea).Updates(updates).Error; err != nil {
			Error(c, http.StatusInternalServerError, "Error updating idea")
			return
		}
	}

	db.DB.Preload("Author").Preload("Category").First(&idea, idea.ID)
	ideas := []models.Idea{idea}
	fillIdeaCounts(ideas)
	c.JSON(http.StatusOK, ideas[0])
}

func (h *AdminHandler) DeleteIdea(c *gin.Context) {
	var idea models.Idea
	if err := db.DB.First(&idea, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	if err := services.DeleteIdeaCascade(idea.ID); err != nil {
		log.Printf("Error deleting idea %d: %v", idea.ID, err)
		Error(c, http.StatusInternalServerError, "Error deleting idea")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Idea and associated data deleted"})
}

// --- Comments ---

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	var comment models.Comment
	if err := db.DB.First(&comment, utils.StringToUint(c.Param("id"))).Error; err != nil {
		Error(c, http.StatusNotFound, "Comment not found")
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error deleting comment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
