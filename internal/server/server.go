// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"follicle/internal/cache"
	"follicle/internal/config"
	"follicle/internal/database"
	"follicle/internal/featureflags"
	"follicle/internal/middleware"
	"follicle/internal/repository"
	"follicle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager

	userRepo repository.UserRepository

	userService      *service.UserService
	postService      *service.PostService
	commentService   *service.CommentService
	reactionService  *service.ReactionService
	tagService       *service.TagService
	bookmarkService  *service.BookmarkService
	reportService    *service.ReportService
	categoryService  *service.CategoryService
	directoryService *service.DirectoryService
	reviewService    *service.ReviewService
}

// NewServer creates a new server instance, connecting its own database and
// Redis from config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("follicle-api"),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
	}

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	tagRepo := repository.NewTagRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	searchLogRepo := repository.NewSearchLogRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)

	server.userService = service.NewUserService(server.userRepo)
	isAdmin := server.userService.IsAdmin

	server.tagService = service.NewTagService(tagRepo, postRepo, isAdmin)
	server.postService = service.NewPostService(postRepo, categoryRepo, searchLogRepo, server.tagService, isAdmin)
	server.commentService = service.NewCommentService(commentRepo, postRepo, isAdmin)
	server.reactionService = service.NewReactionService(reactionRepo)
	server.bookmarkService = service.NewBookmarkService(repository.NewBookmarkRepository(db), postRepo)
	server.reportService = service.NewReportService(repository.NewReportRepository(db), reactionRepo, isAdmin)
	server.categoryService = service.NewCategoryService(categoryRepo, isAdmin)
	server.directoryService = service.NewDirectoryService(directoryRepo, isAdmin)
	server.reviewService = service.NewReviewService(repository.NewReviewRepository(db), directoryRepo, isAdmin)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public reads carry optional identity so visibility, liked state and
	// view counting can respect the caller.
	publicPosts := api.Group("/posts", middleware.OptionalAuth)
	publicPosts.Get("/", s.GetPosts)
	publicPosts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id", s.GetPost)

	publicTags := api.Group("/tags")
	publicTags.Get("/rank", s.GetTagRank)
	publicTags.Get("/search", s.SearchTags)

	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)

	hospitals := api.Group("/hospitals")
	hospitals.Get("/", s.GetHospitals)
	hospitals.Get("/:id/reviews", s.GetHospitalReviews)
	hospitals.Get("/:id", s.GetHospital)

	products := api.Group("/products")
	products.Get("/", s.GetProducts)
	products.Get("/:id/reviews", s.GetProductReviews)
	products.Get("/:id", s.GetProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/me/bookmarks", s.GetMyBookmarks)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUserProfile)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes BEFORE generic /:id routes
	posts.Post("/:id/like", s.TogglePostLike)
	posts.Post("/:id/dislike", s.TogglePostDislike)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/tags", s.AssignPostTags)
	posts.Post("/:id/bookmark", s.SaveBookmark)
	posts.Delete("/:id/bookmark", s.RemoveBookmark)
	posts.Post("/:id/publish", s.PublishPost)
	posts.Post("/:id/archive", s.ArchivePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:id/like", s.ToggleCommentLike)
	comments.Post("/:id/dislike", s.ToggleCommentDislike)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	tags := protected.Group("/tags")
	tags.Post("/", s.CreateTag)

	reports := protected.Group("/reports")
	reports.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_report"), s.CreateReport)

	reviews := protected.Group("/reviews")
	reviews.Post("/", s.CreateReview)
	reviews.Delete("/:id", s.DeleteReview)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/categories", s.CreateCategory)
	admin.Post("/hospitals", s.CreateHospital)
	admin.Post("/products", s.CreateProduct)
	admin.Post("/tags/:id/deactivate", s.DeactivateTag)
	admin.Post("/comments/:id/hide", s.HideComment)
	admin.Get("/reports", s.GetReports)
	admin.Post("/reports/:id/resolve", s.ResolveReport)
	admin.Get("/search/popular", s.GetPopularQueries)
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// the app degrades without Redis, readiness only requires the DB
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
