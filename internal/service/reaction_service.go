// Package service contains the business logic layer of the application.
package service

import (
	"context"

	"follicle/internal/models"
	"follicle/internal/observability"
	"follicle/internal/repository"
)

// ReactionService implements the shared like/dislike ledger for posts and
// comments. A user holds at most one reaction per target; toggling the same
// kind removes it, toggling the other kind switches it.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
}

// ToggleReactionInput carries one toggle request.
type ToggleReactionInput struct {
	UserID uint
	Target models.ReactionTarget
	Kind   string
}

// ReactionState is the post-toggle state returned to the caller: whether the
// user's reaction of that kind is now active, and the live count for the kind.
type ReactionState struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// NewReactionService creates a new reaction service.
func NewReactionService(reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepo: reactionRepo}
}

// Toggle flips the user's reaction on the target. Lost races against a
// concurrent toggle of the same (user, target) pair surface as a swallowed
// insert; one internal retry re-reads state and reapplies, so callers never
// see a conflict error for an ordinary double-tap.
func (s *ReactionService) Toggle(ctx context.Context, in ToggleReactionInput) (*ReactionState, error) {
	if in.Kind != models.ReactionKindLike && in.Kind != models.ReactionKindDislike {
		return nil, models.NewValidationError("Reaction kind must be like or dislike")
	}

	exists, err := s.reactionRepo.TargetExists(ctx, in.Target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError(string(in.Target.Kind), in.Target.ID)
	}

	const attempts = 2

	var active bool
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			observability.ReactionToggleRetries.Inc()
		}

		applied, nowActive, err := s.toggleOnce(ctx, in)
		if err != nil {
			return nil, err
		}
		if applied {
			active = nowActive
			break
		}
		if attempt == attempts-1 {
			return nil, models.NewConflictError("Reaction changed concurrently, please retry")
		}
	}

	count, err := s.reactionRepo.Count(ctx, in.Target, in.Kind)
	if err != nil {
		return nil, err
	}
	return &ReactionState{Active: active, Count: count}, nil
}

// toggleOnce applies a single toggle attempt. The first return value is false
// when a concurrent writer invalidated the read-then-write window.
func (s *ReactionService) toggleOnce(ctx context.Context, in ToggleReactionInput) (bool, bool, error) {
	existing, err := s.reactionRepo.Find(ctx, in.UserID, in.Target)
	if err != nil {
		return false, false, err
	}

	entry := &models.ReactionEntry{UserID: in.UserID, Kind: in.Kind}
	switch in.Target.Kind {
	case models.TargetPost:
		entry.PostID = &in.Target.ID
	case models.TargetComment:
		entry.CommentID = &in.Target.ID
	}

	switch {
	case existing == nil:
		created, err := s.reactionRepo.Insert(ctx, entry)
		if err != nil {
			return false, false, err
		}
		if !created {
			return false, false, nil
		}
		observability.ReactionToggles.WithLabelValues(string(in.Target.Kind), in.Kind, "added").Inc()
		return true, true, nil

	case existing.Kind == in.Kind:
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return false, false, err
		}
		observability.ReactionToggles.WithLabelValues(string(in.Target.Kind), in.Kind, "removed").Inc()
		return true, false, nil

	default:
		if err := s.reactionRepo.Replace(ctx, existing, entry); err != nil {
			return false, false, err
		}
		observability.ReactionToggles.WithLabelValues(string(in.Target.Kind), in.Kind, "switched").Inc()
		return true, true, nil
	}
}

// State reads the user's current reaction state without mutating anything.
func (s *ReactionService) State(ctx context.Context, userID uint, target models.ReactionTarget, kind string) (*ReactionState, error) {
	count, err := s.reactionRepo.Count(ctx, target, kind)
	if err != nil {
		return nil, err
	}

	var active bool
	if userID != 0 {
		existing, err := s.reactionRepo.Find(ctx, userID, target)
		if err != nil {
			return nil, err
		}
		active = existing != nil && existing.Kind == kind
	}

	return &ReactionState{Active: active, Count: count}, nil
}
