package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

const DefaultPageSize = 20

type visibilityService struct {
	posts ports.PostRepository
	graph ports.FriendGraphRepository
	cache ports.FriendSetCache
}

func NewVisibilityService(
	posts ports.PostRepository,
	graph ports.FriendGraphRepository,
	cache ports.FriendSetCache,
) ports.VisibilityService {
	return &visibilityService{posts: posts, graph: graph, cache: cache}
}

// friendSet calcule le set d'amis du demandeur, en read-through sur le
// cache : le filtrage d'un feed reste linéaire dans le nombre de posts,
// pas linéaire-fois-nombre-d'amis.
func (s *visibilityService) friendSet(ctx context.Context, userID string) (map[string]bool, error) {
	ids, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		// Cache en panne != graphe en panne : on recalcule.
		slog.Warn("friend set cache read failed", "error", err)
		hit = false
	}

	if !hit {
		ids, err = s.graph.FriendIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, userID, ids); err != nil {
			slog.Warn("friend set cache write failed", "error", err)
		}
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *visibilityService) ListVisible(ctx context.Context, requesterID string, limit int, cursor string) ([]*domain.Post, string, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	// Le token de page est "<date RFC3339Nano>~<id>" du dernier post vu :
	// keyset sur (created_at, id), pas d'OFFSET. L'id départage les
	// timestamps égaux à la frontière de page.
	var cursorTime time.Time
	var cursorID string
	if cursor != "" {
		rawTime, rawID, ok := strings.Cut(cursor, "~")
		if !ok || rawID == "" {
			return nil, "", errors.New("invalid page token")
		}
		var err error
		cursorTime, err = time.Parse(time.RFC3339Nano, rawTime)
		if err != nil {
			return nil, "", errors.New("invalid page token")
		}
		cursorID = rawID
	}

	posts, err := s.posts.ListRecent(ctx, limit, cursorTime, cursorID)
	if err != nil {
		return nil, "", err
	}

	// Un seul calcul du set d'amis pour toute la page.
	friends, err := s.friendSet(ctx, requesterID)
	if err != nil {
		return nil, "", err
	}

	visible := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if p.ViewableBy(requesterID, friends) {
			visible = append(visible, p)
		}
	}

	nextCursor := ""
	if len(posts) == limit && len(posts) > 0 {
		last := posts[len(posts)-1]
		nextCursor = last.CreatedAt.Format(time.RFC3339Nano) + "~" + last.ID
	}
	return visible, nextCursor, nil
}

func (s *visibilityService) GetPost(ctx context.Context, requesterID, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Privacy == domain.PrivacyPublic || post.AuthorID == requesterID {
		return post, nil
	}

	friend, err := s.graph.AreFriends(ctx, requesterID, post.AuthorID)
	if err != nil {
		return nil, err
	}
	if !friend {
		// Contrat : NotFound, pas Forbidden. Un post privé ne doit pas
		// révéler son existence à un non-ami.
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}
