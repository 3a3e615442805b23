package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

// engagementService possède exclusivement likes et commentaires d'un
// post. La visibilité est vérifiée EN AMONT par l'appelant : ici on ne
// décide que des règles d'idempotence et de propriété.
type engagementService struct {
	posts ports.PostRepository
	users ports.UserRepository
}

func NewEngagementService(posts ports.PostRepository, users ports.UserRepository) ports.EngagementService {
	return &engagementService{posts: posts, users: users}
}

// Like : rejet idempotent, pas succès idempotent. Le deuxième appel du
// même user doit être observablement refusé (sémantique de set).
func (s *engagementService) Like(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.posts.ListLikes(ctx, postID)
}

func (s *engagementService) Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return nil, err
	}
	return s.posts.ListLikes(ctx, postID)
}

func (s *engagementService) AddComment(ctx context.Context, userID, postID, text string) ([]domain.Comment, error) {
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(author, text)
	if err != nil {
		return nil, err // ErrEmptyText
	}

	if err := s.posts.AddComment(ctx, postID, comment); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

func (s *engagementService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error) {
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err // ErrCommentNotFound
	}

	if comment.AuthorID != userID {
		return nil, domain.ErrNotAuthorized
	}

	// Suppression par identité : si le même auteur a plusieurs
	// commentaires sur ce post, seul CE commentaire disparaît.
	if err := s.posts.DeleteComment(ctx, postID, commentID); err != nil {
		return nil, err
	}

	slog.Debug("comment removed", "post_id", postID, "comment_id", commentID)
	return s.posts.ListComments(ctx, postID)
}
