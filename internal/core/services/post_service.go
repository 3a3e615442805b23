package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

type postService struct {
	posts     ports.PostRepository
	users     ports.UserRepository
	publisher ports.EventPublisher
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, pub ports.EventPublisher) ports.PostService {
	return &postService{posts: posts, users: users, publisher: pub}
}

func (s *postService) CreatePost(ctx context.Context, authorID, text string, privacy domain.Privacy) (*domain.Post, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post, err := domain.NewPost(author, text, privacy)
	if err != nil {
		return nil, err
	}

	// 1. Sauvegarde DB (source de vérité)
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Publication événement, best effort : la donnée est sauvée, on
	// ne fait pas échouer la requête si le broker est lent ou down.
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.Warn("post.created event not published", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	// Seul l'auteur supprime son post.
	if post.AuthorID != userID {
		return domain.ErrNotAuthorized
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	if err := s.publisher.PublishPostDeleted(ctx, postID); err != nil {
		slog.Warn("post.deleted event not published", "post_id", postID, "error", err)
	}
	return nil
}
