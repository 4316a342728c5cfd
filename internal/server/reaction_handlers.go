package server

import (
	"follicle/internal/models"
	"follicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// reactionResponse is the wire shape clients reconcile optimistic UI against.
// It is the same for posts and comments and for both reaction kinds: "liked"
// reports whether the toggled kind is now active for the caller, "likes" is
// the live count of that kind on the target.
type reactionResponse struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// TogglePostLike handles POST /api/posts/:id/like
func (s *Server) TogglePostLike(c *fiber.Ctx) error {
	return s.toggleReaction(c, models.TargetPost, models.ReactionKindLike)
}

// TogglePostDislike handles POST /api/posts/:id/dislike
func (s *Server) TogglePostDislike(c *fiber.Ctx) error {
	return s.toggleReaction(c, models.TargetPost, models.ReactionKindDislike)
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	return s.toggleReaction(c, models.TargetComment, models.ReactionKindLike)
}

// ToggleCommentDislike handles POST /api/comments/:id/dislike
func (s *Server) ToggleCommentDislike(c *fiber.Ctx) error {
	return s.toggleReaction(c, models.TargetComment, models.ReactionKindDislike)
}

func (s *Server) toggleReaction(c *fiber.Ctx, kind models.TargetKind, reaction string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	state, err := s.reactionService.Toggle(c.Context(), service.ToggleReactionInput{
		UserID: currentUserID(c),
		Target: models.ReactionTarget{Kind: kind, ID: id},
		Kind:   reaction,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reactionResponse{Liked: state.Active, Likes: state.Count})
}
