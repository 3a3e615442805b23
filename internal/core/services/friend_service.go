package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

// friendService implémente ports.FriendGraphService.
// Les préconditions sont vérifiées ici, dans l'ordre du contrat ;
// l'atomicité des effets est déléguée au repository (transaction Neo4j).
type friendService struct {
	users  ports.UserRepository
	graph  ports.FriendGraphRepository
	cache  ports.FriendSetCache
	broker ports.EventPublisher
}

func NewFriendService(
	users ports.UserRepository,
	graph ports.FriendGraphRepository,
	cache ports.FriendSetCache,
	broker ports.EventPublisher,
) ports.FriendGraphService {
	return &friendService{users: users, graph: graph, cache: cache, broker: broker}
}

func (s *friendService) SendRequest(ctx context.Context, senderID, targetEmail string) error {
	// 1. La cible doit exister
	target, err := s.users.GetByEmail(ctx, targetEmail)
	if err != nil {
		return err // ErrUnknownUser ou erreur infra
	}

	// 2. Pas d'auto-demande
	if target.ID == senderID {
		return domain.ErrSelfRequest
	}

	// 3. Pas de demande vers un ami existant
	friends, err := s.graph.AreFriends(ctx, senderID, target.ID)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return domain.ErrAlreadyFriends
	}

	// 4. Pas de doublon dans le même sens
	pending, err := s.graph.HasPending(ctx, senderID, target.ID)
	if err != nil {
		return fmt.Errorf("check pending: %w", err)
	}
	if pending {
		return domain.ErrRequestAlreadyPending
	}

	// Effet : la demande s'empile chez la CIBLE uniquement,
	// le profil de l'émetteur n'est pas touché.
	return s.graph.CreatePending(ctx, senderID, target.ID)
}

func (s *friendService) AcceptRequest(ctx context.Context, accepterID, requesterEmail string) error {
	requester, err := s.users.GetByEmail(ctx, requesterEmail)
	if err != nil {
		return err
	}

	// Consommation de la demande + création des deux arêtes FRIEND en
	// une seule transaction : les deux profils changent ensemble ou pas
	// du tout (invariant de symétrie).
	if err := s.graph.AcceptRequest(ctx, accepterID, requester.ID); err != nil {
		return err
	}

	// Les sets d'amis des deux participants viennent de changer.
	if err := s.cache.Invalidate(ctx, accepterID, requester.ID); err != nil {
		slog.Warn("friend set cache invalidation failed", "error", err)
	}

	// Best effort : la donnée est commitée, on ne fait pas échouer
	// l'acceptation si le broker est indisponible.
	if err := s.broker.PublishFriendAccepted(ctx, accepterID, requester.ID); err != nil {
		slog.Warn("friend.accepted event not published", "error", err)
	}

	return nil
}

func (s *friendService) IsFriend(ctx context.Context, a, b string) (bool, error) {
	return s.graph.AreFriends(ctx, a, b)
}

func (s *friendService) Friends(ctx context.Context, userID string) ([]*domain.User, error) {
	ids, err := s.graph.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return s.users.GetByIDs(ctx, ids)
}

func (s *friendService) PendingRequests(ctx context.Context, userID string) ([]*domain.User, error) {
	ids, err := s.graph.PendingSenderIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}

	// Hydratation en lot, puis remise dans l'ordre de la file
	// (GetByIDs ne garantit pas l'ordre).
	fetched, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.User, len(fetched))
	for _, u := range fetched {
		byID[u.ID] = u
	}

	ordered := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

func (s *friendService) AvailableUsers(ctx context.Context, requesterID string) ([]*domain.User, error) {
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	friendIDs, err := s.graph.FriendIDs(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	friends := make(map[string]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}

	available := make([]*domain.User, 0, len(all))
	for _, u := range all {
		if u.ID == requesterID || friends[u.ID] {
			continue
		}
		available = append(available, u)
	}
	return available, nil
}
