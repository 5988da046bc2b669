package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jengzang/contour-backend/internal/models"
)

// Commenter posts review comments on pull requests
type Commenter interface {
	Comment(ctx context.Context, ci models.CIData) (*models.CommentResult, error)
}

// CommentService handles business logic for pull request comments
type CommentService struct {
	commenter Commenter
}

// NewCommentService creates a new comment service
func NewCommentService(commenter Commenter) *CommentService {
	return &CommentService{commenter: commenter}
}

// Comment posts the comment for a CI build
func (s *CommentService) Comment(ctx context.Context, ci models.CIData) (*models.CommentResult, error) {
	if ci.TravisPullRequest <= 0 {
		return nil, fmt.Errorf("%w: travis_pull_request must be positive, got %d", ErrInvalidQuery, ci.TravisPullRequest)
	}

	log.Printf("Commenting on %s#%d (branch %s)", ci.TravisRepoSlug, ci.TravisPullRequest, ci.TravisPullRequestBranch)

	result, err := s.commenter.Comment(ctx, ci)
	if err != nil {
		return nil, fmt.Errorf("failed to comment on pull request: %w", err)
	}
	return result, nil
}
