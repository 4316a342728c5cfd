package service

import (
	"context"
	"testing"
	"time"

	"follicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostService(postRepo *postRepoStub, isAdmin func(context.Context, uint) (bool, error)) *PostService {
	tags := NewTagService(noopTagRepo(), postRepo, isAdmin)
	return NewPostService(postRepo, noopCategoryRepo(), noopSearchLogRepo(), tags, isAdmin)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := newPostService(noopPostRepo(), nil)
	ctx := context.Background()

	t.Run("missing title", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Content: "body"})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("missing content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "title"})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		categoryRepo := noopCategoryRepo()
		categoryRepo.existsFn = func(context.Context, uint) (bool, error) { return false, nil }
		postRepo := noopPostRepo()
		tags := NewTagService(noopTagRepo(), postRepo, nil)
		svc2 := NewPostService(postRepo, categoryRepo, noopSearchLogRepo(), tags, nil)
		categoryID := uint(9)
		_, err := svc2.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c", CategoryID: &categoryID})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_CreatePost_StatusAndTags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("published by default", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var created *models.Post
		postRepo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			created = p
			return nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c"})
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPublished, created.Status)
	})

	t.Run("draft on request", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var created *models.Post
		postRepo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			created = p
			return nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c", Draft: true})
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusDraft, created.Status)
	})

	t.Run("tags assigned on create", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 7
			return nil
		}
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Status: models.PostStatusPublished}, nil
		}
		tagRepo := noopTagRepo()
		var assigned []uint
		tagRepo.replaceFn = func(_ context.Context, _ uint, tagIDs []uint) error {
			assigned = tagIDs
			return nil
		}
		tags := NewTagService(tagRepo, postRepo, nil)
		svc := NewPostService(postRepo, noopCategoryRepo(), noopSearchLogRepo(), tags, nil)
		_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c", Tags: []string{"minoxidil", "crown"}})
		require.NoError(t, err)
		assert.Len(t, assigned, 2)
	})
}

func TestPostService_GetPost_Visibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	draftByTwo := func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusDraft}, nil
	}

	t.Run("author sees own draft", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = draftByTwo
		svc := newPostService(postRepo, nil)
		post, err := svc.GetPost(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusDraft, post.Status)
	})

	t.Run("stranger gets forbidden", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = draftByTwo
		svc := newPostService(postRepo, nil)
		_, err := svc.GetPost(ctx, 1, 3)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("deleted post forbidden for other viewers", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusDeleted}, nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.GetPost(ctx, 1, 3)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("missing row stays not found", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(context.Context, uint, uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.GetPost(ctx, 404, 3)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestPostService_ViewPost_Counting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	published := func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusPublished, ViewCount: 10}, nil
	}

	t.Run("first view by a reader increments", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = published
		recorded := false
		postRepo.recordViewFn = func(_ context.Context, userID, postID uint) (bool, error) {
			recorded = true
			assert.Equal(t, uint(3), userID)
			return true, nil
		}
		svc := newPostService(postRepo, nil)
		post, err := svc.ViewPost(ctx, 1, 3)
		require.NoError(t, err)
		assert.True(t, recorded)
		assert.Equal(t, 11, post.ViewCount)
	})

	t.Run("repeat view does not increment", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = published
		postRepo.recordViewFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
		svc := newPostService(postRepo, nil)
		post, err := svc.ViewPost(ctx, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 10, post.ViewCount)
	})

	t.Run("author view never counts", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = published
		postRepo.recordViewFn = func(context.Context, uint, uint) (bool, error) {
			t.Fatal("RecordView called for the author")
			return false, nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.ViewPost(ctx, 1, 2)
		require.NoError(t, err)
	})

	t.Run("anonymous view never counts", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = published
		postRepo.recordViewFn = func(context.Context, uint, uint) (bool, error) {
			t.Fatal("RecordView called for an anonymous viewer")
			return false, nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.ViewPost(ctx, 1, 0)
		require.NoError(t, err)
	})
}

func TestPostService_ChangeStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	withStatus := func(authorID uint, status string) func(context.Context, uint, uint) (*models.Post, error) {
		return func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: authorID, Status: status}, nil
		}
	}

	t.Run("publish a draft", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(1, models.PostStatusDraft)
		set := ""
		postRepo.updateStatusFn = func(_ context.Context, _ uint, status string) error {
			set = status
			return nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.ChangeStatus(ctx, 1, 1, models.PostStatusPublished)
		require.NoError(t, err)
		assert.Equal(t, models.PostStatusPublished, set)
	})

	t.Run("deleted is terminal", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(1, models.PostStatusDeleted)
		svc := newPostService(postRepo, nil)
		_, err := svc.ChangeStatus(ctx, 1, 1, models.PostStatusPublished)
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})

	t.Run("draft cannot archive", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(1, models.PostStatusDraft)
		svc := newPostService(postRepo, nil)
		_, err := svc.ChangeStatus(ctx, 1, 1, models.PostStatusArchived)
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})

	t.Run("stranger cannot publish another's draft", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(2, models.PostStatusDraft)
		svc := newPostService(postRepo, neverAdmin)
		_, err := svc.ChangeStatus(ctx, 1, 1, models.PostStatusPublished)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin may soft-delete any post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(2, models.PostStatusPublished)
		set := ""
		postRepo.updateStatusFn = func(_ context.Context, _ uint, status string) error {
			set = status
			return nil
		}
		svc := newPostService(postRepo, alwaysAdmin)
		require.NoError(t, svc.DeletePost(ctx, 1, 1))
		assert.Equal(t, models.PostStatusDeleted, set)
	})

	t.Run("admin may not publish another's draft", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = withStatus(2, models.PostStatusDraft)
		svc := newPostService(postRepo, alwaysAdmin)
		_, err := svc.ChangeStatus(ctx, 1, 1, models.PostStatusPublished)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestPostService_UpdatePost_Rules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stranger cannot edit", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusPublished}, nil
		}
		svc := newPostService(postRepo, neverAdmin)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 1, Title: "t", Content: "c"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin may edit another's post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusPublished}, nil
		}
		updated := false
		postRepo.updateFn = func(_ context.Context, p *models.Post) error {
			updated = true
			assert.Equal(t, "moderated title", p.Title)
			return nil
		}
		svc := newPostService(postRepo, alwaysAdmin)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 1, Title: "moderated title", Content: "c"})
		require.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("deleted post frozen", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Status: models.PostStatusDeleted}, nil
		}
		svc := newPostService(postRepo, nil)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 1, PostID: 1, Title: "t", Content: "c"})
		assertAppErrorCode(t, err, models.CodeInvalidState)
	})
}

func TestPostService_SearchPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty query rejected", func(t *testing.T) {
		t.Parallel()
		svc := newPostService(noopPostRepo(), nil)
		_, err := svc.SearchPosts(ctx, "", 20, 0, 1)
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("query is logged in the background", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.searchFn = func(context.Context, string, int, int, uint) ([]*models.Post, error) {
			return []*models.Post{{ID: 1}}, nil
		}
		logged := make(chan *models.SearchLog, 1)
		searchLogRepo := noopSearchLogRepo()
		searchLogRepo.insertFn = func(_ context.Context, entry *models.SearchLog) error {
			logged <- entry
			return nil
		}
		tags := NewTagService(noopTagRepo(), postRepo, nil)
		svc := NewPostService(postRepo, noopCategoryRepo(), searchLogRepo, tags, nil)

		_, err := svc.SearchPosts(ctx, "minoxidil", 20, 0, 3)
		require.NoError(t, err)

		select {
		case entry := <-logged:
			assert.Equal(t, "minoxidil", entry.Query)
			assert.Equal(t, 1, entry.Results)
			require.NotNil(t, entry.UserID)
			assert.Equal(t, uint(3), *entry.UserID)
		case <-time.After(time.Second):
			t.Fatal("search log write never happened")
		}
	})
}

func TestPostService_PopularQueries_AdminOnly(t *testing.T) {
	t.Parallel()

	svc := newPostService(noopPostRepo(), neverAdmin)
	_, err := svc.PopularQueries(context.Background(), 1, 10)
	assertAppErrorCode(t, err, models.CodeForbidden)
}
