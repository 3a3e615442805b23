package domain

import "errors"

// --- ERREURS DU DOMAINE ---
// Chaque échec de précondition est une erreur typée que les adapters
// traduisent (HTTP 400/401/404...). Rien ne "panic" au-delà du coeur.
var (
	// Identité
	ErrUnknownUser        = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidName        = errors.New("name must be at least 2 characters")

	// Graphe d'amitié
	ErrSelfRequest           = errors.New("cannot send a friend request to yourself")
	ErrAlreadyFriends        = errors.New("already a friend")
	ErrRequestAlreadyPending = errors.New("friend request already pending")
	ErrNoSuchRequest         = errors.New("no friend request from this user")

	// Posts & engagement
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment does not exist")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked yet")
	ErrEmptyText       = errors.New("text is required")
	ErrNotAuthorized   = errors.New("user not authorized")

	// Profils
	ErrProfileNotFound = errors.New("there is no profile for this user")
	ErrEntryNotFound   = errors.New("entry not found")

	// Infrastructure : seule erreur que l'appelant a le droit de retenter.
	ErrStoreUnavailable = errors.New("store unavailable")
)
