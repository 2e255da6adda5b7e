package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adforgehq/adforge-backend/pkg/db/models"
	pkgerrors "github.com/adforgehq/adforge-backend/pkg/errors"
	"github.com/adforgehq/adforge-backend/pkg/pagination"
)

// Service exposes liked post reads for the dashboard feed.
type Service interface {
	ListPosts(ctx context.Context, params pagination.Params) (*PostListResult, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.LikedPost, error)
}

type service struct {
	repo PostRepository
}

// NewService constructs a liked post service instance.
func NewService(repo PostRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("post repository required")
	}
	return &service{repo: repo}, nil
}

// ListPosts returns one page of the feed newest first.
func (s *service) ListPosts(ctx context.Context, params pagination.Params) (*PostListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list liked posts")
	}
	return &PostListResult{
		Posts:      NewPostDTOs(rows),
		NextCursor: nextCursor,
	}, nil
}

// GetPost loads one post or reports a not-found error.
func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*models.LikedPost, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load liked post")
	}
	return row, nil
}
