package repository

import (
	"context"
	"testing"
	"time"

	"follicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepository_Ensure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tag, err := repo.Ensure(ctx, "minoxidil")
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.NotZero(t, tag.ID)
	assert.True(t, tag.IsActive)

	again, err := repo.Ensure(ctx, "minoxidil")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)

	var total int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestTagRepository_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Tag{Name: "finasteride", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, &models.Tag{Name: "finasteride", IsActive: true})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestTagRepository_FindByNameCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	_, err := repo.Ensure(ctx, "Minoxidil")
	require.NoError(t, err)

	tag, err := repo.FindByName(ctx, "minoxidil")
	require.NoError(t, err)
	assert.Nil(t, tag)

	tag, err = repo.FindByName(ctx, "Minoxidil")
	require.NoError(t, err)
	assert.NotNil(t, tag)
}

func TestTagRepository_ReplaceAssignmentsRecomputesUsage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	postA := createTestPost(t, db, user.ID, models.PostStatusPublished)
	postB := createTestPost(t, db, user.ID, models.PostStatusPublished)

	minox, err := repo.Ensure(ctx, "minoxidil")
	require.NoError(t, err)
	fin, err := repo.Ensure(ctx, "finasteride")
	require.NoError(t, err)

	require.NoError(t, repo.ReplaceAssignments(ctx, postA.ID, []uint{minox.ID, fin.ID}))
	require.NoError(t, repo.ReplaceAssignments(ctx, postB.ID, []uint{minox.ID}))

	count, err := repo.UsageCount(ctx, minox.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	var stored models.Tag
	require.NoError(t, db.First(&stored, minox.ID).Error)
	assert.Equal(t, 2, stored.UsageCount)

	// dropping a tag from a post must pull its count back down
	require.NoError(t, repo.ReplaceAssignments(ctx, postA.ID, []uint{fin.ID}))

	require.NoError(t, db.First(&stored, minox.ID).Error)
	assert.Equal(t, 1, stored.UsageCount)
	var storedFin models.Tag
	require.NoError(t, db.First(&storedFin, fin.ID).Error)
	assert.Equal(t, 1, storedFin.UsageCount)
}

func TestTagRepository_ReplaceAssignmentsEmptySet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	post := createTestPost(t, db, user.ID, models.PostStatusPublished)

	tag, err := repo.Ensure(ctx, "dutasteride")
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAssignments(ctx, post.ID, []uint{tag.ID}))
	require.NoError(t, repo.ReplaceAssignments(ctx, post.ID, nil))

	var stored models.Tag
	require.NoError(t, db.First(&stored, tag.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)

	tags, err := repo.TagsOfPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestTagRepository_RemoveAssignmentsForTag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice")
	postA := createTestPost(t, db, user.ID, models.PostStatusPublished)
	postB := createTestPost(t, db, user.ID, models.PostStatusPublished)

	tag, err := repo.Ensure(ctx, "hairline")
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceAssignments(ctx, postA.ID, []uint{tag.ID}))
	require.NoError(t, repo.ReplaceAssignments(ctx, postB.ID, []uint{tag.ID}))

	require.NoError(t, repo.RemoveAssignmentsForTag(ctx, tag.ID))

	count, err := repo.UsageCount(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var stored models.Tag
	require.NoError(t, db.First(&stored, tag.ID).Error)
	assert.Equal(t, 0, stored.UsageCount)
}

func TestTagRepository_Rank(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	now := time.Now()
	older := &models.Tag{Name: "shampoo", UsageCount: 3, IsActive: true, CreatedAt: now.Add(-2 * time.Hour)}
	newer := &models.Tag{Name: "transplant", UsageCount: 3, IsActive: true, CreatedAt: now.Add(-1 * time.Hour)}
	top := &models.Tag{Name: "minoxidil", UsageCount: 7, IsActive: true, CreatedAt: now.Add(-3 * time.Hour)}
	unused := &models.Tag{Name: "wigs", UsageCount: 0, IsActive: true, CreatedAt: now}
	inactive := &models.Tag{Name: "spam", UsageCount: 9, IsActive: false, CreatedAt: now}
	for _, tag := range []*models.Tag{older, newer, top, unused, inactive} {
		require.NoError(t, db.Create(tag).Error)
	}

	ranked, err := repo.Rank(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// most used first; ties go to the newer tag; zero-usage and
	// deactivated tags never rank
	assert.Equal(t, "minoxidil", ranked[0].Name)
	assert.Equal(t, "transplant", ranked[1].Name)
	assert.Equal(t, "shampoo", ranked[2].Name)
}

func TestTagRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Tag{Name: "Minoxidil", UsageCount: 5, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "minoxidil-foam", UsageCount: 2, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "finasteride", UsageCount: 9, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "minoxidil-old", UsageCount: 4, IsActive: false}).Error)

	tags, err := repo.Search(ctx, "MINOX", 10)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Minoxidil", tags[0].Name)
	assert.Equal(t, "minoxidil-foam", tags[1].Name)
}

func TestTagRepository_SetActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tag, err := repo.Ensure(ctx, "clinic")
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, tag.ID, false))

	var stored models.Tag
	require.NoError(t, db.First(&stored, tag.ID).Error)
	assert.False(t, stored.IsActive)
}
