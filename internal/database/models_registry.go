package database

import "follicle/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Post{},
		&models.PostView{},
		&models.Comment{},
		&models.ReactionEntry{},
		&models.Tag{},
		&models.PostTag{},
		&models.Bookmark{},
		&models.Report{},
		&models.Hospital{},
		&models.Product{},
		&models.Review{},
		&models.SearchLog{},
	}
}
