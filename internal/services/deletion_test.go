package services

import (
	"path/filepath"
	"testing"

	"ideaboard/internal/db"
	"ideaboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, db.Connect(sqlite.Open(path+"?_fk=1")))
}

func seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "x", Role: models.RoleUser}
	require.NoError(t, db.DB.Create(&user).Error)
	return &user
}

func seedIdea(t *testing.T, authorID uint) *models.Idea {
	t.Helper()
	idea := models.Idea{
		Title:       "t",
		Description: "d",
		Status:      models.StatusPending,
		AuthorID:    authorID,
		CategoryID:  1,
	}
	require.NoError(t, db.DB.Create(&idea).Error)
	return &idea
}

func TestDeleteIdeaCascade(t *testing.T) {
	setupTestDB(t)

	author := seedUser(t, "Alice", "alice@example.com")
	voter := seedUser(t, "Bob", "bob@example.com")
	idea := seedIdea(t, author.ID)

	require.NoError(t, db.DB.Create(&models.Vote{UserID: voter.ID, IdeaID: idea.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{Content: "c", UserID: voter.ID, IdeaID: idea.ID}).Error)

	require.NoError(t, DeleteIdeaCascade(idea.ID))

	var votes, comments, ideas int64
	db.DB.Model(&models.Vote{}).Where("idea_id = ?", idea.ID).Count(&votes)
	db.DB.Model(&models.Comment{}).Where("idea_id = ?", idea.ID).Count(&comments)
	db.DB.Model(&models.Idea{}).Where("id = ?", idea.ID).Count(&ideas)
	assert.Zero(t, votes)
	assert.Zero(t, comments)
	assert.Zero(t, ideas)
}

func TestDeleteUserCascade(t *testing.T) {
	setupTestDB(t)

	target := seedUser(t, "Victim", "victim@example.com")
	other := seedUser(t, "Other", "other@example.com")
	authored := seedIdea(t, target.ID)
	foreign := seedIdea(t, other.ID)

	require.NoError(t, db.DB.Create(&models.Vote{UserID: target.ID, IdeaID: foreign.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{Content: "c", UserID: target.ID, IdeaID: foreign.ID}).Error)

	require.NoError(t, DeleteUserCascade(target.ID))

	var count int64
	db.DB.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	assert.Zero(t, count)
	db.DB.Model(&models.Vote{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Zero(t, count)
	db.DB.Model(&models.Comment{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Zero(t, count)

	var anonymous models.User
	require.NoError(t, db.DB.Where("email = ?", models.AnonymousEmail).First(&anonymous).Error)

	var reassigned models.Idea
	require.NoError(t, db.DB.First(&reassigned, authored.ID).Error)
	assert.Equal(t, anonymous.ID, reassigned.AuthorID)

	var untouched models.Idea
	require.NoError(t, db.DB.First(&untouched, foreign.ID).Error)
	assert.Equal(t, other.ID, untouched.AuthorID)
}

func TestDeleteIdeaCascadeRollsBackOnFailure(t *testing.T) {
	setupTestDB(t)

	author := seedUser(t, "Alice", "alice@example.com")
	voter := seedUser(t, "Bob", "bob@example.com")
	idea := seedIdea(t, author.ID)

	require.NoError(t, db.DB.Create(&models.Vote{UserID: voter.ID, IdeaID: idea.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{Content: "c", UserID: voter.ID, IdeaID: idea.ID}).Error)

	// Block the final delete so the transaction fails after the child rows
	// were already removed inside it
	require.NoError(t, db.DB.Exec(
		"CREATE TRIGGER block_idea_delete BEFORE DELETE ON ideas BEGIN SELECT RAISE(ABORT, 'blocked'); END").Error)
	require.Error(t, DeleteIdeaCascade(idea.ID))
	require.NoError(t, db.DB.Exec("DROP TRIGGER block_idea_delete").Error)

	var votes, comments, ideas int64
	db.DB.Model(&models.Vote{}).Where("idea_id = ?", idea.ID).Count(&votes)
	db.DB.Model(&models.Comment{}).Where("idea_id = ?", idea.ID).Count(&comments)
	db.DB.Model(&models.Idea{}).Where("id = ?", idea.ID).Count(&ideas)
	assert.Equal(t, int64(1), votes)
	assert.Equal(t, int64(1), comments)
	assert.Equal(t, int64(1), ideas)
}

func TestDeleteUserCascadeRollsBackOnFailure(t *testing.T) {
	setupTestDB(t)

	var sentinel models.User
	require.NoError(t, db.DB.Where("email = ?", models.AnonymousEmail).First(&sentinel).Error)

	// The sentinel authoring an idea makes its own deletion impossible: ideas
	// reassign to itself, then the final user delete trips the RESTRICT FK on
	// ideas.author_id and the whole transaction must unwind.
	idea := seedIdea(t, sentinel.ID)
	require.NoError(t, db.DB.Create(&models.Vote{UserID: sentinel.ID, IdeaID: idea.ID}).Error)
	require.NoError(t, db.DB.Create(&models.Comment{Content: "c", UserID: sentinel.ID, IdeaID: idea.ID}).Error)

	require.Error(t, DeleteUserCascade(sentinel.ID))

	var votes, comments, users int64
	db.DB.Model(&models.Vote{}).Where("user_id = ?", sentinel.ID).Count(&votes)
	db.DB.Model(&models.Comment{}).Where("user_id = ?", sentinel.ID).Count(&comments)
	db.DB.Model(&models.User{}).Where("id = ?", sentinel.ID).Count(&users)
	assert.Equal(t, int64(1), votes)
	assert.Equal(t, int64(1), comments)
	assert.Equal(t, int64(1), users)
}

func TestDeleteUserCascadeCreatesSentinelWhenMissing(t *testing.T) {
	setupTestDB(t)

	// Simulate a database where the sentinel was never seeded
	require.NoError(t, db.DB.Where("email = ?", models.AnonymousEmail).Delete(&models.User{}).Error)

	target := seedUser(t, "Victim", "victim@example.com")
	idea := seedIdea(t, target.ID)

	require.NoError(t, DeleteUserCascade(target.ID))

	var anonymous models.User
	require.NoError(t, db.DB.Where("email = ?", models.AnonymousEmail).First(&anonymous).Error)

	var reassigned models.Idea
	require.NoError(t, db.DB.First(&reassigned, idea.ID).Error)
	assert.Equal(t, anonymous.ID, reassigned.AuthorID)

	// A second deletion reuses the same sentinel instead of creating another
	second := seedUser(t, "Victim2", "victim2@example.com")
	seedIdea(t, second.ID)
	require.NoError(t, DeleteUserCascade(second.ID))

	var sentinels int64
	db.DB.Model(&models.User{}).Where("email = ?", models.AnonymousEmail).Count(&sentinels)
	assert.Equal(t, int64(1), sentinels)
}
