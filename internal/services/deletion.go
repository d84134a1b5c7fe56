package services

import (
	"errors"

	"ideaboard/internal/db"
	"ideaboard/internal/models"
	"ideaboard/internal/utils"

	"gorm.io/gorm"
)

// The store does not cascade on its own, so both deletion flows run their
// ordered deletes inside a single transaction: partial completion must never
// be observable.

// DeleteIdeaCascade removes an idea together with its votes and comments.
func DeleteIdeaCascade(ideaID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", ideaID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("idea_id = ?", ideaID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Idea{}, ideaID).Error
	})
}

// DeleteUserCascade removes a user's votes and comments, moves their
// authored ideas to the anonymous sentinel, then deletes the user row.
// Other users' ideas are never touched.
func DeleteUserCascade(userID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		anonymous, err := ensureAnonymousUser(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Idea{}).
			Where("author_id = ?", userID).
			Update("author_id", anonymous.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}

// ensureAnonymousUser finds or creates the sentinel. Two admin deletions may
// race here; the unique index on email decides the winner and the loser
// falls back to re-fetching the row.
func ensureAnonymousUser(tx *gorm.DB) (*models.User, error) {
	var anonymous models.User
	err := tx.Where("email = ?", models.AnonymousEmail).First(&anonymous).Error
	if err == nil {
		return &anonymous, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword("anonymousPassword")
	if err != nil {
		return nil, err
	}
	anonymous = models.User{
		Name:     "Anonymous",
		Email:    models.AnonymousEmail,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := tx.Create(&anonymous).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("email = ?", models.AnonymousEmail).First(&anonymous).Error; err != nil {
				return nil, err
			}
			return &anonymous, nil
		}
		return nil, err
	}
	return &anonymous, nil
}
