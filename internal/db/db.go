package db

import (
	"log"
	"os"

	"ideaboard/internal/models"
	"ideaboard/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=ideaboard port=5432 sslmode=disable"
	}

	if err := Connect(postgres.Open(dsn)); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")
}

// Connect opens the database on the given dialector and migrates the schema.
// Tests call this directly with a sqlite dialector.
func Connect(dialector gorm.Dialector) error {
	var err error
	// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey,
	// which the vote toggle and the sentinel find-or-create key off.
	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Idea{},
		&models.Comment{},
		&models.Vote{},
	)
	if err != nil {
		return err
	}

	seedCategories()
	seedAdmin()
	seedAnonymous()
	return nil
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []models.Category{
		{Name: "User Interface", Description: "Look and feel of the product"},
		{Name: "Performance", Description: "Speed and resource usage"},
	}

	for _, category := range categories {
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created")
}

// seedAdmin provisions a back-office account from the environment. Skipped
// when an admin already exists or the variables are unset.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Admin",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user %s created", email)
}

// seedAnonymous makes sure the sentinel account exists before the first
// user deletion needs it. Deletion re-checks inside its transaction anyway.
func seedAnonymous() {
	var count int64
	DB.Model(&models.User{}).Where("email = ?", models.AnonymousEmail).Count(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPassword("anonymousPassword")
	if err != nil {
		log.Printf("Failed to hash sentinel password: %v", err)
		return
	}

	anonymous := models.User{
		Name:     "Anonymous",
		Email:    models.AnonymousEmail,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := DB.Create(&anonymous).Error; err != nil {
		log.Printf("Failed to create anonymous user: %v", err)
	}
}
