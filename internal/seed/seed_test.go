package seed

import (
	"testing"

	"follicle/internal/database"
	"follicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestCategoriesIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Categories(db))
	require.NoError(t, Categories(db))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(builtInCategories)), count)
}

func TestRunSeedsAllEntities(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 5, NumPosts: 10}))

	var users, posts, hospitals, products, tags int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Hospital{}).Count(&hospitals).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)

	assert.Equal(t, int64(5), users)
	assert.Equal(t, int64(10), posts)
	assert.Equal(t, int64(6), hospitals)
	assert.Equal(t, int64(8), products)
	assert.Equal(t, int64(len(tagPool)), tags)

	var admin models.User
	require.NoError(t, db.First(&admin).Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestRunWithCleanResets(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 5}))
	require.NoError(t, Run(db, Options{NumUsers: 3, NumPosts: 5, ShouldClean: true}))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}
