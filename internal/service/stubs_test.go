package service

import (
	"context"
	"testing"

	"follicle/internal/models"
	"follicle/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.IsAppErrorCode(err, code), "expected %s, got %v", code, err)
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	findFn         func(context.Context, uint, models.ReactionTarget) (*models.ReactionEntry, error)
	insertFn       func(context.Context, *models.ReactionEntry) (bool, error)
	deleteFn       func(context.Context, uint) error
	replaceFn      func(context.Context, *models.ReactionEntry, *models.ReactionEntry) error
	countFn        func(context.Context, models.ReactionTarget, string) (int64, error)
	targetExistsFn func(context.Context, models.ReactionTarget) (bool, error)
}

func (s *reactionRepoStub) Find(ctx context.Context, userID uint, target models.ReactionTarget) (*models.ReactionEntry, error) {
	return s.findFn(ctx, userID, target)
}
func (s *reactionRepoStub) Insert(ctx context.Context, entry *models.ReactionEntry) (bool, error) {
	return s.insertFn(ctx, entry)
}
func (s *reactionRepoStub) Delete(ctx context.Context, entryID uint) error {
	return s.deleteFn(ctx, entryID)
}
func (s *reactionRepoStub) Replace(ctx context.Context, old, entry *models.ReactionEntry) error {
	return s.replaceFn(ctx, old, entry)
}
func (s *reactionRepoStub) Count(ctx context.Context, target models.ReactionTarget, kind string) (int64, error) {
	return s.countFn(ctx, target, kind)
}
func (s *reactionRepoStub) TargetExists(ctx context.Context, target models.ReactionTarget) (bool, error) {
	return s.targetExistsFn(ctx, target)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		findFn: func(context.Context, uint, models.ReactionTarget) (*models.ReactionEntry, error) {
			return nil, nil
		},
		insertFn:  func(context.Context, *models.ReactionEntry) (bool, error) { return true, nil },
		deleteFn:  func(context.Context, uint) error { return nil },
		replaceFn: func(context.Context, *models.ReactionEntry, *models.ReactionEntry) error { return nil },
		countFn: func(context.Context, models.ReactionTarget, string) (int64, error) {
			return 0, nil
		},
		targetExistsFn: func(context.Context, models.ReactionTarget) (bool, error) { return true, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint, uint) (*models.Comment, error)
	listRootsFn    func(context.Context, uint, int, int, uint) ([]*models.Comment, error)
	repliesOfFn    func(context.Context, []uint, uint) ([]*models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	updateStatusFn func(context.Context, uint, string) error
	countByPostFn  func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *commentRepoStub) ListRootsByPost(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	return s.listRootsFn(ctx, postID, limit, offset, currentUserID)
}
func (s *commentRepoStub) RepliesOf(ctx context.Context, parentIDs []uint, currentUserID uint) ([]*models.Comment, error) {
	return s.repliesOfFn(ctx, parentIDs, currentUserID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(context.Context, *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, Status: models.CommentStatusActive}, nil
		},
		listRootsFn:    func(context.Context, uint, int, int, uint) ([]*models.Comment, error) { return nil, nil },
		repliesOfFn:    func(context.Context, []uint, uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:       func(context.Context, *models.Comment) error { return nil },
		updateStatusFn: func(context.Context, uint, string) error { return nil },
		countByPostFn:  func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint, uint) (*models.Post, error)
	listFn         func(context.Context, repository.PostListFilter, int, int, uint) ([]*models.Post, error)
	listByAuthorFn func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	searchFn       func(context.Context, string, int, int, uint) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	updateStatusFn func(context.Context, uint, string) error
	recordViewFn   func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostListFilter, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, filter, limit, offset, currentUserID)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *postRepoStub) RecordView(ctx context.Context, userID, postID uint) (bool, error) {
	return s.recordViewFn(ctx, userID, postID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Status: models.PostStatusPublished}, nil
		},
		listFn: func(context.Context, repository.PostListFilter, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		listByAuthorFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) { return nil, nil },
		searchFn:       func(context.Context, string, int, int, uint) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(context.Context, *models.Post) error { return nil },
		updateStatusFn: func(context.Context, uint, string) error { return nil },
		recordViewFn:   func(context.Context, uint, uint) (bool, error) { return true, nil },
	}
}

// tagRepoStub is a stub for repository.TagRepository.
type tagRepoStub struct {
	findByNameFn   func(context.Context, string) (*models.Tag, error)
	ensureFn       func(context.Context, string) (*models.Tag, error)
	createFn       func(context.Context, *models.Tag) (bool, error)
	replaceFn      func(context.Context, uint, []uint) error
	removeForTagFn func(context.Context, uint) error
	setActiveFn    func(context.Context, uint, bool) error
	rankFn         func(context.Context, int) ([]*models.Tag, error)
	searchFn       func(context.Context, string, int) ([]*models.Tag, error)
	tagsOfPostFn   func(context.Context, uint) ([]*models.Tag, error)
	usageCountFn   func(context.Context, uint) (int64, error)
}

func (s *tagRepoStub) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.findByNameFn(ctx, name)
}
func (s *tagRepoStub) Ensure(ctx context.Context, name string) (*models.Tag, error) {
	return s.ensureFn(ctx, name)
}
func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) (bool, error) {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) ReplaceAssignments(ctx context.Context, postID uint, tagIDs []uint) error {
	return s.replaceFn(ctx, postID, tagIDs)
}
func (s *tagRepoStub) RemoveAssignmentsForTag(ctx context.Context, tagID uint) error {
	return s.removeForTagFn(ctx, tagID)
}
func (s *tagRepoStub) SetActive(ctx context.Context, tagID uint, active bool) error {
	return s.setActiveFn(ctx, tagID, active)
}
func (s *tagRepoStub) Rank(ctx context.Context, limit int) ([]*models.Tag, error) {
	return s.rankFn(ctx, limit)
}
func (s *tagRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *tagRepoStub) TagsOfPost(ctx context.Context, postID uint) ([]*models.Tag, error) {
	return s.tagsOfPostFn(ctx, postID)
}
func (s *tagRepoStub) UsageCount(ctx context.Context, tagID uint) (int64, error) {
	return s.usageCountFn(ctx, tagID)
}

func noopTagRepo() *tagRepoStub {
	nextID := uint(0)
	return &tagRepoStub{
		findByNameFn: func(context.Context, string) (*models.Tag, error) { return nil, nil },
		ensureFn: func(_ context.Context, name string) (*models.Tag, error) {
			nextID++
			return &models.Tag{ID: nextID, Name: name, IsActive: true}, nil
		},
		createFn:       func(context.Context, *models.Tag) (bool, error) { return true, nil },
		replaceFn:      func(context.Context, uint, []uint) error { return nil },
		removeForTagFn: func(context.Context, uint) error { return nil },
		setActiveFn:    func(context.Context, uint, bool) error { return nil },
		rankFn:         func(context.Context, int) ([]*models.Tag, error) { return nil, nil },
		searchFn:       func(context.Context, string, int) ([]*models.Tag, error) { return nil, nil },
		tagsOfPostFn:   func(context.Context, uint) ([]*models.Tag, error) { return nil, nil },
		usageCountFn:   func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn    func(context.Context, *models.Category) error
	getByIDFn   func(context.Context, uint) (*models.Category, error)
	getBySlugFn func(context.Context, string) (*models.Category, error)
	listFn      func(context.Context) ([]*models.Category, error)
	existsFn    func(context.Context, uint) (bool, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) List(ctx context.Context) ([]*models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn:    func(context.Context, *models.Category) error { return nil },
		getByIDFn:   func(context.Context, uint) (*models.Category, error) { return nil, gorm.ErrRecordNotFound },
		getBySlugFn: func(context.Context, string) (*models.Category, error) { return nil, nil },
		listFn:      func(context.Context) ([]*models.Category, error) { return nil, nil },
		existsFn:    func(context.Context, uint) (bool, error) { return true, nil },
	}
}

// searchLogRepoStub is a stub for repository.SearchLogRepository.
type searchLogRepoStub struct {
	insertFn  func(context.Context, *models.SearchLog) error
	popularFn func(context.Context, int) ([]*models.PopularQuery, error)
}

func (s *searchLogRepoStub) Insert(ctx context.Context, log *models.SearchLog) error {
	return s.insertFn(ctx, log)
}
func (s *searchLogRepoStub) Popular(ctx context.Context, limit int) ([]*models.PopularQuery, error) {
	return s.popularFn(ctx, limit)
}

func noopSearchLogRepo() *searchLogRepoStub {
	return &searchLogRepoStub{
		insertFn:  func(context.Context, *models.SearchLog) error { return nil },
		popularFn: func(context.Context, int) ([]*models.PopularQuery, error) { return nil, nil },
	}
}

func alwaysAdmin(context.Context, uint) (bool, error) { return true, nil }
func neverAdmin(context.Context, uint) (bool, error)  { return false, nil }
