package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---
// Des structs plutôt que des listes d'arguments : on peut ajouter des
// champs optionnels plus tard sans casser les signatures.

type RegisterCmd struct {
	Email    string
	Name     string
	Password string
}

type LoginCmd struct {
	Email    string
	Password string
}

type UpsertProfileCmd struct {
	UserID         string
	Status         string
	Skills         []string
	Bio            string
	Company        string
	Website        string
	Location       string
	GithubUsername string
	Social         domain.SocialLinks
}

// --- OUTPUTS ---

type AuthResponse struct {
	User      *domain.User
	Token     string
	ExpiresIn time.Duration
}

// --- PORTS PRIMAIRES (Driving) ---
// L'API que l'hexagone expose au monde extérieur (HTTP, CLI, tests).

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)

	// ValidateToken retourne l'UserID porté par le token.
	ValidateToken(ctx context.Context, token string) (string, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// FriendGraphService porte les transitions d'état du graphe d'amitié
// et l'invariant de symétrie.
type FriendGraphService interface {
	// SendRequest vérifie les préconditions DANS L'ORDRE (premier échec
	// gagnant) : cible inconnue, auto-demande, déjà amis, déjà en attente.
	SendRequest(ctx context.Context, senderID, targetEmail string) error

	// AcceptRequest consomme exactement une demande en attente et crée
	// l'amitié DANS LES DEUX SENS, atomiquement.
	AcceptRequest(ctx context.Context, accepterID, requesterEmail string) error

	IsFriend(ctx context.Context, a, b string) (bool, error)
	Friends(ctx context.Context, userID string) ([]*domain.User, error)

	// PendingRequests retourne les demandeurs, plus récent en premier.
	PendingRequests(ctx context.Context, userID string) ([]*domain.User, error)

	// AvailableUsers : tout le monde sauf le demandeur et ses amis,
	// dans l'ordre de l'annuaire.
	AvailableUsers(ctx context.Context, requesterID string) ([]*domain.User, error)
}

type PostService interface {
	CreatePost(ctx context.Context, authorID, text string, privacy domain.Privacy) (*domain.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
}

// VisibilityService décide de l'inclusion d'un post pour un demandeur.
type VisibilityService interface {
	// ListVisible filtre les posts récents par la règle de visibilité.
	// Le set d'amis du demandeur est calculé UNE fois par appel.
	ListVisible(ctx context.Context, requesterID string, limit int, cursor string) ([]*domain.Post, string, error)

	// GetPost échoue ErrPostNotFound aussi bien quand le post n'existe
	// pas que lorsqu'il est privé et hors amitié : l'existence d'un post
	// privé n'est jamais révélée.
	GetPost(ctx context.Context, requesterID, postID string) (*domain.Post, error)
}

// EngagementService gère likes (set idempotent) et commentaires
// (ordonnés, supprimables par leur auteur seulement).
type EngagementService interface {
	Like(ctx context.Context, userID, postID string) ([]domain.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error)
	AddComment(ctx context.Context, userID, postID, text string) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error)
}

type ProfileService interface {
	GetMine(ctx context.Context, userID string) (*domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	ListAll(ctx context.Context) ([]*domain.Profile, error)
	Upsert(ctx context.Context, cmd UpsertProfileCmd) (*domain.Profile, error)

	AddExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error)

	// DeleteAccount retire profil, user et noeud du graphe.
	DeleteAccount(ctx context.Context, userID string) error
}
