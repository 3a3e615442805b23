package ports

import (
	"context"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
)

// --- PERSISTANCE (Driven) ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByIDs hydrate un lot d'utilisateurs en une seule requête.
	// L'ordre de retour n'est pas garanti.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)

	// ListAll retourne l'annuaire complet, ordre stable (date d'inscription).
	ListAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	// Upsert écrit le profil entier (création au premier geste profil).
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	ListAll(ctx context.Context) ([]*domain.Profile, error)
	Delete(ctx context.Context, userID string) error
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)

	// ListRecent : pagination keyset sur (created_at, id), plus récent en
	// premier. L'id départage les timestamps égaux pour qu'une frontière
	// de page ne saute (ni ne répète) jamais un post. cursorTime zéro =
	// première page. Le repo parle "date + id", pas "token" : le décodage
	// du curseur appartient au service. Posts hydratés (likes + comments).
	ListRecent(ctx context.Context, limit int, cursorTime time.Time, cursorID string) ([]*domain.Post, error)
	Delete(ctx context.Context, postID string) error

	// AddLike est un "add-if-absent" ATOMIQUE : deux likes concurrents du
	// même user ne produisent jamais de doublon, le second échoue
	// ErrAlreadyLiked. Post inconnu -> ErrPostNotFound.
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	ListLikes(ctx context.Context, postID string) ([]domain.Like, error)

	AddComment(ctx context.Context, postID string, c *domain.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)

	// DeleteComment cible le commentaire par son id, jamais par un index
	// recalculé ni par l'auteur.
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
}

// FriendGraphRepository est le port vers Neo4j. Chaque écriture est une
// transaction : AcceptRequest applique "consommer la demande + créer les
// deux arêtes FRIEND" comme une unité, ou rien.
type FriendGraphRepository interface {
	// EnsureSchema crée contraintes et index (idempotent).
	EnsureSchema(ctx context.Context) error

	CreatePending(ctx context.Context, senderID, targetID string) error
	HasPending(ctx context.Context, senderID, targetID string) (bool, error)

	// AcceptRequest échoue ErrNoSuchRequest si aucune demande
	// requester -> accepter n'est en attente. Une demande croisée
	// (accepter -> requester) est consommée dans la même transaction :
	// une file d'attente ne référence jamais un ami.
	AcceptRequest(ctx context.Context, accepterID, requesterID string) error

	AreFriends(ctx context.Context, a, b string) (bool, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)

	// PendingSenderIDs : demandeurs, plus récent en premier.
	PendingSenderIDs(ctx context.Context, userID string) ([]string, error)

	// RemoveUser détache et supprime le noeud (suppression de compte).
	RemoveUser(ctx context.Context, userID string) error
}

// --- CACHE ---

// FriendSetCache évite de retraverser le graphe à chaque filtrage de
// feed. Un miss est toléré (on recalcule), une entrée périmée ne l'est
// pas : acceptation et suppression de compte invalident les entrées
// des deux côtés de l'arête.
type FriendSetCache interface {
	Get(ctx context.Context, userID string) ([]string, bool, error)
	Set(ctx context.Context, userID string, friendIDs []string) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

// --- MESSAGERIE (Broker) ---

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, userID, email string) error
	PublishFriendAccepted(ctx context.Context, accepterID, requesterID string) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
}

// --- SÉCURITÉ ---

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenProvider interface {
	Generate(user *domain.User) (token string, err error)
	Validate(token string) (userID string, err error)
}
