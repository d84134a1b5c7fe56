package handlers

import (
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
	"ideaboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// List returns the comments for one idea, newest first. Public.
func (h *CommentHandler) List(c *gin.Context) {
	ideaID := utils.StringToUint(c.Query("ideaId"))
	if ideaID == 0 {
		Error(c, http.StatusBadRequest, "Missing ideaId")
		return
	}

	var comments []models.Comment
	if err := db.DB.Preload("User").
		Where("idea_id = ?", ideaID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error fetching comments")
		return
	}

	c.JSON(http.StatusOK, comments)
}

type createCommentInput struct {
	Content string `json:"content"`
	IdeaID  uint   `json:"idea_id"`
}

// Create adds a comment via POST /comments with the idea id in the body.
func (h *CommentHandler) Create(c *gin.Context) {
	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Content == "" {
		Error(c, http.StatusBadRequest, "Missing content")
		return
	}
	if input.IdeaID == 0 {
		Error(c, http.StatusBadRequest, "Missing idea_id")
		return
	}
	h.create(c, input.IdeaID, input.Content)
}

// CreateForIdea adds a comment via the nested POST /ideas/:id/comments form.
func (h *CommentHandler) CreateForIdea(c *gin.Context) {
	var input createCommentInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Content == "" {
		Error(c, http.StatusBadRequest, "Missing content")
		return
	}
	h.create(c, utils.StringToUint(c.Param("id")), input.Content)
}

func (h *CommentHandler) create(c *gin.Context, ideaID uint, content string) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var idea models.Idea
	if err := db.DB.First(&idea, ideaID).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	comment := models.Comment{
		Content: content,
		IdeaID:  idea.ID,
		UserID:  user.ID,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error creating comment")
		return
	}

	comment.User = *user
	c.JSON(http.StatusCreated, comment)
}
