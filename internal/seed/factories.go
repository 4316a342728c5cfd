package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"follicle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Shared demo password so seeded accounts can be logged into locally.
const demoPassword = "Follicle-Demo-2024!"

var tagPool = []string{
	"minoxidil", "finasteride", "dutasteride", "transplant", "dht",
	"shampoo", "ketoconazole", "microneedling", "biotin", "prp",
	"hairline", "crown", "shedding", "regrowth", "side-effects",
}

var postTitles = []string{
	"Month %d on minoxidil, honest update",
	"Finasteride shedding phase, is this normal?",
	"My FUE consultation notes, %d grafts quoted",
	"Ketoconazole shampoo actually helped my itching",
	"Crown thinning at %d, where do I start?",
	"One year progress, photos in the comments",
	"Dermaroller routine that worked for me",
	"Switched from foam to liquid, week %d thoughts",
}

var commentBodies = []string{
	"Stick with it, the first three months are the hardest.",
	"Ask your dermatologist about the dosage before changing anything.",
	"I had the same shedding around week 8, it passed.",
	"Which clinic was this? I'm comparing quotes right now.",
	"Photos or it didn't happen!",
	"The itching went away for me after switching shampoos.",
	"Consistency matters more than the exact product.",
	"Great progress, thanks for posting the timeline.",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rng: rand.New(rand.NewSource(seed))}
}

// CreateUsers inserts n demo users. The first user is an admin.
func (f *Factory) CreateUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		if i == 0 {
			role = models.RoleAdmin
		}
		user := &models.User{
			Username:     fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), i),
			Email:        fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			PasswordHash: string(hash),
			Nickname:     gofakeit.FirstName(),
			Bio:          gofakeit.Sentence(8),
			Role:         role,
		}
		if err := f.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreatePosts inserts n posts spread over the past 90 days. Roughly one in
// ten stays a draft so author-only visibility has data to show.
func (f *Factory) CreatePosts(n int, users []*models.User, categories []models.Category) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.rng.Intn(len(users))]
		status := models.PostStatusPublished
		if f.rng.Intn(10) == 0 {
			status = models.PostStatusDraft
		}

		post := &models.Post{
			Title:     f.postTitle(),
			Content:   gofakeit.Paragraph(2, 4, 12, "\n\n"),
			AuthorID:  author.ID,
			Status:    status,
			CreatedAt: f.pastTime(90),
		}
		if len(categories) > 0 {
			id := categories[f.rng.Intn(len(categories))].ID
			post.CategoryID = &id
		}
		if err := f.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CreateComments adds root comments and replies to published posts.
func (f *Factory) CreateComments(posts []*models.Post, users []*models.User) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for i := 0; i < f.rng.Intn(5); i++ {
			root := &models.Comment{
				PostID:   post.ID,
				AuthorID: users[f.rng.Intn(len(users))].ID,
				Content:  commentBodies[f.rng.Intn(len(commentBodies))],
				Status:   models.CommentStatusActive,
			}
			if err := f.db.Create(root).Error; err != nil {
				return nil, err
			}
			comments = append(comments, root)

			for j := 0; j < f.rng.Intn(3); j++ {
				parentID := root.ID
				reply := &models.Comment{
					PostID:          post.ID,
					AuthorID:        users[f.rng.Intn(len(users))].ID,
					Content:         commentBodies[f.rng.Intn(len(commentBodies))],
					ParentCommentID: &parentID,
					Status:          models.CommentStatusActive,
				}
				if err := f.db.Create(reply).Error; err != nil {
					return nil, err
				}
				comments = append(comments, reply)
			}
		}
	}
	return comments, nil
}

// CreateReactions sprinkles likes and dislikes over posts and comments.
// Conflicting inserts are skipped, matching the one-reaction-per-target rule.
func (f *Factory) CreateReactions(posts []*models.Post, comments []*models.Comment, users []*models.User) (int, error) {
	total := 0
	for _, post := range posts {
		if post.Status != models.PostStatusPublished {
			continue
		}
		for _, user := range users {
			if f.rng.Intn(3) != 0 {
				continue
			}
			postID := post.ID
			entry := &models.ReactionEntry{UserID: user.ID, PostID: &postID, Kind: f.reactionKind()}
			res := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
			if res.Error != nil {
				return total, res.Error
			}
			total += int(res.RowsAffected)
		}
	}
	for _, comment := range comments {
		for _, user := range users {
			if f.rng.Intn(6) != 0 {
				continue
			}
			commentID := comment.ID
			entry := &models.ReactionEntry{UserID: user.ID, CommentID: &commentID, Kind: f.reactionKind()}
			res := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
			if res.Error != nil {
				return total, res.Error
			}
			total += int(res.RowsAffected)
		}
	}
	return total, nil
}

// AttachTags assigns up to three tags from the pool to each post and then
// recomputes every tag's usage count from the join rows.
func (f *Factory) AttachTags(posts []*models.Post) error {
	tagIDs := make(map[string]uint, len(tagPool))
	for _, name := range tagPool {
		tag := models.Tag{Name: name, IsActive: true}
		if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return err
		}
		if tag.ID == 0 {
			if err := f.db.Where("name = ?", name).First(&tag).Error; err != nil {
				return err
			}
		}
		tagIDs[name] = tag.ID
	}

	for _, post := range posts {
		picked := f.rng.Perm(len(tagPool))[:f.rng.Intn(4)]
		for _, idx := range picked {
			link := models.PostTag{PostID: post.ID, TagID: tagIDs[tagPool[idx]]}
			if err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return err
			}
		}
	}

	return f.db.Exec(`
		UPDATE tags SET usage_count = (
			SELECT COUNT(*) FROM post_tags WHERE post_tags.tag_id = tags.id
		)
	`).Error
}

// CreateDirectory inserts demo hospitals and products.
func (f *Factory) CreateDirectory() ([]*models.Hospital, []*models.Product, error) {
	hospitals := make([]*models.Hospital, 0, 6)
	for i := 0; i < 6; i++ {
		h := &models.Hospital{
			Name:      fmt.Sprintf("%s Hair Clinic", gofakeit.City()),
			Address:   gofakeit.Address().Address,
			Phone:     gofakeit.Phone(),
			Specialty: []string{"FUE transplant", "FUT transplant", "PRP therapy", "Dermatology"}[f.rng.Intn(4)],
		}
		if err := f.db.Create(h).Error; err != nil {
			return nil, nil, err
		}
		hospitals = append(hospitals, h)
	}

	products := make([]*models.Product, 0, 8)
	kinds := []string{"Shampoo", "Serum", "Supplement", "Dermaroller", "Foam"}
	for i := 0; i < 8; i++ {
		p := &models.Product{
			Name:        fmt.Sprintf("%s %s", gofakeit.AdjectiveDescriptive(), kinds[f.rng.Intn(len(kinds))]),
			Brand:       gofakeit.Company(),
			Description: gofakeit.Sentence(12),
		}
		if err := f.db.Create(p).Error; err != nil {
			return nil, nil, err
		}
		products = append(products, p)
	}
	return hospitals, products, nil
}

// CreateReviews rates every directory entry a few times, one review per user
// per target at most.
func (f *Factory) CreateReviews(hospitals []*models.Hospital, products []*models.Product, users []*models.User) error {
	write := func(kind string, targetID uint) error {
		reviewers := f.rng.Perm(len(users))
		n := f.rng.Intn(4)
		if n > len(reviewers) {
			n = len(reviewers)
		}
		for _, idx := range reviewers[:n] {
			review := &models.Review{
				AuthorID:   users[idx].ID,
				TargetKind: kind,
				TargetID:   targetID,
				Rating:     1 + f.rng.Intn(5),
				Content:    gofakeit.Sentence(10),
				Status:     models.ReviewStatusActive,
			}
			if err := f.db.Create(review).Error; err != nil {
				return err
			}
		}
		return nil
	}

	for _, h := range hospitals {
		if err := write(models.ReviewTargetHospital, h.ID); err != nil {
			return err
		}
	}
	for _, p := range products {
		if err := write(models.ReviewTargetProduct, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) postTitle() string {
	tmpl := postTitles[f.rng.Intn(len(postTitles))]
	if strings.Contains(tmpl, "%d") {
		return fmt.Sprintf(tmpl, 1+f.rng.Intn(36))
	}
	return tmpl
}

func (f *Factory) reactionKind() string {
	if f.rng.Intn(5) == 0 {
		return models.ReactionKindDislike
	}
	return models.ReactionKindLike
}

func (f *Factory) pastTime(maxDays int) time.Time {
	back := time.Duration(f.rng.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}
