package server

import (
	"follicle/internal/models"
	"follicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTagRank handles GET /api/tags/rank
func (s *Server) GetTagRank(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	ranked, err := s.tagService.Rank(c.Context(), page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(ranked)
}

// SearchTags handles GET /api/tags/search?q=...
func (s *Server) SearchTags(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	tags, err := s.tagService.SearchTags(c.Context(), c.Query("q"), page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(c.Context(), req.Name)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// AssignPostTags handles PUT /api/posts/:id/tags
func (s *Server) AssignPostTags(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tags, err := s.tagService.AssignTags(c.Context(), service.AssignTagsInput{
		UserID: currentUserID(c),
		PostID: postID,
		Names:  req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// DeactivateTag handles POST /api/admin/tags/:id/deactivate
func (s *Server) DeactivateTag(c *fiber.Ctx) error {
	tagID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.DeactivateTag(c.Context(), currentUserID(c), tagID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
