package utils

import (
	"campushub/internal/models"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const DefaultNumUsers = 20

const seedPassword = "TestPassword123!"

func hashSeedPassword() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}
	return string(hash)
}

// SeedUsers creates one admin plus numUsers regular accounts, all with
// the shared test password.
func SeedUsers(db *gorm.DB, numUsers int) error {
	hash := hashSeedPassword()

	admin := models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := db.Where(models.User{Username: admin.Username}).FirstOrCreate(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin: %v", err)
	}

	for i := 1; i <= numUsers; i++ {
		user := models.User{
			Username: fmt.Sprintf("testuser%d", i),
			Email:    fmt.Sprintf("testuser%d@example.com", i),
			Password: hash,
			Role:     models.RoleUser,
		}
		if err := db.Where(models.User{Username: user.Username}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %d: %v", i, err)
		}
	}

	log.Printf("Seeded %d users (+admin)", numUsers)
	return nil
}

// SeedArticles creates a couple of published articles per partition,
// authored by the admin account.
func SeedArticles(db *gorm.DB) error {
	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		return fmt.Errorf("seed users first: %v", err)
	}

	partitions := []models.Partition{
		models.PartitionSquare,
		models.PartitionNotice,
		models.PartitionDownload,
		models.PartitionLecture,
	}

	for _, partition := range partitions {
		for i := 1; i <= 2; i++ {
			article := models.Article{
				Title:         fmt.Sprintf("Sample %s article %d", partition, i),
				Content:       fmt.Sprintf("Seeded content for the %s partition.", partition),
				Status:        models.StatusPublic,
				Partition:     partition,
				AuthorID:      admin.ID,
				ImageIDs:      models.IDList{},
				AttachmentIDs: models.IDList{},
				CommentIDs:    models.IDList{},
			}
			if err := db.Where(models.Article{Title: article.Title}).FirstOrCreate(&article).Error; err != nil {
				return fmt.Errorf("failed to seed article %q: %v", article.Title, err)
			}
		}
	}

	log.Printf("Seeded %d articles", len(partitions)*2)
	return nil
}

// ClearTestData removes seeded users and everything they authored.
func ClearTestData(db *gorm.DB) error {
	var testUsers []models.User
	if err := db.Where("email LIKE ? OR username = ?", "testuser%@example.com", "admin").Find(&testUsers).Error; err != nil {
		return err
	}

	for _, user := range testUsers {
		if err := db.Where("author_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", user.ID).Delete(&models.ArticleLike{}).Error; err != nil {
			return err
		}
		if err := db.Where("author_id = ?", user.ID).Delete(&models.Article{}).Error; err != nil {
			return err
		}
	}

	result := db.Where("email LIKE ? OR username = ?", "testuser%@example.com", "admin").Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear test users: %v", result.Error)
	}

	log.Printf("Deleted %d test users and their content", result.RowsAffected)
	return nil
}

// GetCounts reports table sizes for the stats command.
func GetCounts(db *gorm.DB) (map[string]int64, error) {
	counts := map[string]int64{}
	tables := map[string]interface{}{
		"users":    &models.User{},
		"articles": &models.Article{},
		"comments": &models.Comment{},
		"likes":    &models.ArticleLike{},
		"blobs":    &models.Blob{},
	}
	for name, model := range tables {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %v", name, err)
		}
		counts[name] = count
	}
	return counts, nil
}
