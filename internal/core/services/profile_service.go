package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

// profileService gère les champs libres du profil. Pas d'invariant
// relationnel ici : le graphe d'amitié vit dans friendService.
type profileService struct {
	profiles ports.ProfileRepository
	users    ports.UserRepository
	graph    ports.FriendGraphRepository
	cache    ports.FriendSetCache
}

func NewProfileService(
	profiles ports.ProfileRepository,
	users ports.UserRepository,
	graph ports.FriendGraphRepository,
	cache ports.FriendSetCache,
) ports.ProfileService {
	return &profileService{profiles: profiles, users: users, graph: graph, cache: cache}
}

func (s *profileService) GetMine(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *profileService) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *profileService) ListAll(ctx context.Context) ([]*domain.Profile, error) {
	return s.profiles.ListAll(ctx)
}

// Upsert crée le profil au premier geste, écrase les champs ensuite
// (last-writer-wins au niveau profil).
func (s *profileService) Upsert(ctx context.Context, cmd ports.UpsertProfileCmd) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, cmd.UserID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		profile = domain.NewProfile(cmd.UserID)
	} else if err != nil {
		return nil, err
	}

	profile.Status = cmd.Status
	profile.Skills = cmd.Skills
	profile.Bio = cmd.Bio
	profile.Company = cmd.Company
	profile.Website = cmd.Website
	profile.Location = cmd.Location
	profile.GithubUsername = cmd.GithubUsername
	profile.Social = cmd.Social

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) AddExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.AddExperience(exp)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.RemoveExperience(expID) {
		return nil, domain.ErrEntryNotFound
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) AddEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.AddEducation(edu)
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.RemoveEducation(eduID) {
		return nil, domain.ErrEntryNotFound
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteAccount retire profil + user + noeud graphe. La suppression du
// profil est tolérante (compte sans profil).
func (s *profileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.profiles.Delete(ctx, userID); err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return err
	}

	// Les sets cachés des amis contiennent encore cet id : on les
	// invalide tant que les arêtes existent, avant de détacher le noeud.
	if friendIDs, err := s.graph.FriendIDs(ctx, userID); err != nil {
		slog.Warn("friend lookup for cache invalidation failed", "user_id", userID, "error", err)
	} else if err := s.cache.Invalidate(ctx, append(friendIDs, userID)...); err != nil {
		slog.Warn("friend set cache invalidation failed", "user_id", userID, "error", err)
	}

	if err := s.graph.RemoveUser(ctx, userID); err != nil {
		slog.Warn("graph node removal failed", "user_id", userID, "error", err)
	}
	return s.users.Delete(ctx, userID)
}
