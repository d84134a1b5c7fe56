package handlers

import (
	"errors"
	"net/http"

	"ideaboard/internal/db"
	"ideaboard/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

type voteInput struct {
	IdeaID uint `json:"idea_id"`
}

func countVotes(ideaID uint) int64 {
	var count int64
	db.DB.Model(&models.Vote{}).Where("idea_id = ?", ideaID).Count(&count)
	return count
}

// Toggle flips the (user, idea) vote: delete it if present, create it if
// absent. The composite unique index on votes is the real guard against a
// racing double insert; a duplicate create fails closed with 409 rather
// than producing a second row.
func (h *VoteHandler) Toggle(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "You must be logged in to vote.")
		return
	}

	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil || input.IdeaID == 0 {
		Error(c, http.StatusBadRequest, "Missing idea_id")
		return
	}

	var idea models.Idea
	if err := db.DB.First(&idea, input.IdeaID).Error; err != nil {
		Error(c, http.StatusNotFound, "Idea not found")
		return
	}

	var existing models.Vote
	err := db.DB.Where("user_id = ? AND idea_id = ?", user.ID, idea.ID).First(&existing).Error
	if err == nil {
		if err := db.DB.Delete(&models.Vote{}, existing.ID).Error; err != nil {
			Error(c, http.StatusInternalServerError, "Error processing vote")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vote removed", "vote_count": countVotes(idea.ID)})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		Error(c, http.StatusInternalServerError, "Error processing vote")
		return
	}

	vote := models.Vote{UserID: user.ID, IdeaID: idea.ID}
	if err := db.DB.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent toggle for the same pair
			Error(c, http.StatusConflict, "Vote already exists")
			return
		}
		Error(c, http.StatusInternalServerError, "Error processing vote")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Vote added", "vote_count": countVotes(idea.ID)})
}
