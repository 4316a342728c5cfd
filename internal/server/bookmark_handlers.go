package server

import (
	"github.com/gofiber/fiber/v2"
)

// SaveBookmark handles POST /api/posts/:id/bookmark
func (s *Server) SaveBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bookmarkService.Save(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveBookmark handles DELETE /api/posts/:id/bookmark
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bookmarkService.Remove(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyBookmarks handles GET /api/users/me/bookmarks
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	bookmarks, err := s.bookmarkService.List(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(bookmarks)
}
