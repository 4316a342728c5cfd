// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"

	"follicle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// builtInCategories are the boards every deployment starts with.
var builtInCategories = []models.Category{
	{Name: "Treatment Journals", Slug: "treatment-journals", Description: "Progress logs for minoxidil, finasteride and other regimens"},
	{Name: "Clinic Questions", Slug: "clinic-questions", Description: "Questions about clinics, consultations and transplants"},
	{Name: "Product Talk", Slug: "product-talk", Description: "Shampoos, supplements, devices and everything in between"},
	{Name: "Success Stories", Slug: "success-stories", Description: "Before and after, what worked and what did not"},
	{Name: "General", Slug: "general", Description: "Everything else"},
}

// Categories inserts the built-in boards, skipping ones that already exist.
// Safe to run on every startup.
func Categories(db *gorm.DB) error {
	for i := range builtInCategories {
		cat := builtInCategories[i]
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cat).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", cat.Slug, err)
		}
	}
	return nil
}

// Run seeds the database with demo users, posts, comments, reactions and
// directory listings. Intended for development environments only.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean before seed: %w", err)
		}
	}

	if err := Categories(db); err != nil {
		return err
	}
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	f := NewFactory(db)

	users, err := f.CreateUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("seeded %d users", len(users))

	posts, err := f.CreatePosts(opts.NumPosts, users, categories)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("seeded %d posts", len(posts))

	comments, err := f.CreateComments(posts, users)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}
	log.Printf("seeded %d comments", len(comments))

	reactions, err := f.CreateReactions(posts, comments, users)
	if err != nil {
		return fmt.Errorf("seed reactions: %w", err)
	}
	log.Printf("seeded %d reactions", reactions)

	if err := f.AttachTags(posts); err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}

	hospitals, products, err := f.CreateDirectory()
	if err != nil {
		return fmt.Errorf("seed directory: %w", err)
	}
	log.Printf("seeded %d hospitals, %d products", len(hospitals), len(products))

	if err := f.CreateReviews(hospitals, products, users); err != nil {
		return fmt.Errorf("seed reviews: %w", err)
	}

	return nil
}

// Clean removes all seeded data. Child tables first so foreign keys hold.
func Clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.Review{},
		&models.Report{},
		&models.Bookmark{},
		&models.ReactionEntry{},
		&models.PostTag{},
		&models.Tag{},
		&models.Comment{},
		&models.PostView{},
		&models.Post{},
		&models.SearchLog{},
		&models.Hospital{},
		&models.Product{},
		&models.Category{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	// Users last; other rows reference them.
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.User{}).Error
}
