package handlers

import (
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
	"ideaboard/internal/services"
	"ideaboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type IdeaHandler struct{}

func NewIdeaHandler() *IdeaHandler {
	return &IdeaHandler{}
}

// fillIdeaCounts batch-fills vote and comment counts for a page of ideas.
func fillIdeaCounts(ideas []models.Idea) {
	if len(ideas) == 0 {
		return
	}

	ideaIDs := make([]uint, len(ideas))
	for i, idea := range ideas {
		ideaIDs[i] = idea.ID
	}

	type countResult struct {
		IdeaID uint
		Count  int
	}

	var voteResults []countResult
	db.DB.Model(&models.Vote{}).
		Select("idea_id, COUNT(*) as count").
		Where("idea_id IN ?", ideaIDs).
		Group("idea_id").
		Scan(&voteResults)

	var commentResults []countResult
	db.DB.Model(&models.Comment{}).
		Select("idea_id, COUNT(*) as count").
		Where("idea_id IN ?", ideaIDs).
		Group("idea_id").
		Scan(&commentResults)

	voteMap := make(map[uint]int)
	for _, r := range voteResults {
		voteMap[r.IdeaID] = r.Count
	}
	commentMap := make(map[uint]int)
	for _, r := range commentResults {
		commentMap[r.IdeaID] = r.Count
	}

	for i := range ideas {
		ideas[i].VoteCount = voteMap[ideas[i].ID]
		ideas[i].CommentCount = commentMap[ideas[i].ID]
	}
}

// List returns all ideas, newest first. Public.
func (h *IdeaHandler) List(c *gin.Context) {
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

// Detail returns one idea with its comments. Public.
func (h *IdeaHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var idea models.Idea
	if err := db.DB.Preload("Author").Preload("Category").First(&idea, id).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	ideas := []models.Idea{idea}
	fillIdeaCounts(ideas)
	idea = ideas[0]

	var comments []models.Comment
	db.DB.Preload("User").
		Where("idea_id = ?", idea.ID).
		Order("created_at DESC").
		Find(&comments)

	c.JSON(http.StatusOK, gin.H{"idea": idea, "comments": comments})
}

type createIdeaInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id"`
	Format      string `json:"format"` // "html" (default) or "markdown"
}

func (h *IdeaHandler) Create(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var input createIdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Title == "" {
		Error(c, http.StatusBadRequest, "Missing title")
		return
	}
	if input.Description == "" {
		Error(c, http.StatusBadRequest, "Missing description")
		return
	}
	if input.CategoryID == 0 {
		Error(c, http.StatusBadRequest, "Missing category_id")
		return
	}

	var category models.Category
	if err := db.DB.First(&category, input.CategoryID).Error; err != nil {
		Error(c, http.StatusNotFound, "Category not found")
		return
	}

	description := utils.SanitizeHTML(input.Description)
	if input.Format == "markdown" {
		description = utils.RenderMarkdown(input.Description)
	}

	idea := models.Idea{
		Title:       input.Title,
		Description: description,
		Status:      models.StatusPending,
		AuthorID:    user.ID,
		CategoryID:  category.ID,
	}
	if err := db.DB.Create(&idea).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error creating idea")
		return
	}

	idea.Author = *user
	idea.Category = category
	c.JSON(http.StatusCreated, idea)
}

type updateStatusInput struct {
	Status string `json:"status"`
}

// UpdateStatus moves an idea between pending/approved/rejected. Admin only;
// transitions are unrestricted in either direction and last write wins.
func (h *IdeaHandler) UpdateStatus(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if !user.IsAdmin() {
		Error(c, http.StatusForbidden, "Not authorized to change idea status")
		return
	}

	var input updateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil || !models.ValidStatus(input.Status) {
		Error(c, http.StatusBadRequest, "Invalid status")
		return
	}

	id := utils.StringToUint(c.Param("id"))
	var idea models.Idea
	if err := db.DB.First(&idea, id).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	if err := db.DB.Model(&idea).Update("status", input.Status).Error; err != nil {
		Error(c, http.StatusInternalServerError, "Error updating idea")
		return
	}

	db.DB.Preload("Author").Preload("Category").First(&idea, idea.ID)
	ideas := []models.Idea{idea}
	fillIdeaCounts(ideas)
	c.JSON(http.StatusOK, ideas[0])
}

// Delete removes an idea and everything hanging off it. Owner or admin.
func (h *IdeaHandler) Delete(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id := utils.StringToUint(c.Param("id"))
	var idea models.Idea
	if err := db.DB.First(&idea, id).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	if idea.AuthorID != user.ID && !user.IsAdmin() {
		Error(c, http.StatusForbidden, "Not authorized to delete this idea")
		return
	}

	if err := services.DeleteIdeaCascade(idea.ID); err != nil {
		Error(c, http.StatusInternalServerError, "Error deleting idea")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Idea and associated votes and comments deleted successfully"})
}
