package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyFriends Privacy = "friends" // visible par l'auteur et ses amis uniquement
)

// Like est une entrée du set de likes. L'ordre d'insertion est conservé
// pour l'affichage mais l'unicité par user est garantie par le store.
type Like struct {
	UserID    string
	CreatedAt time.Time
}

type Comment struct {
	ID         string
	AuthorID   string
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

type Post struct {
	ID           string
	AuthorID     string // immuable
	AuthorName   string
	AuthorAvatar string
	Text         string
	Privacy      Privacy
	Likes        []Like    // set logique, plus récent en premier
	Comments     []Comment // plus récent en premier
	CreatedAt    time.Time
}

// --- FACTORY ---

func NewPost(author *User, text string, privacy Privacy) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return &Post{
		ID:           uuid.NewString(),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Text:         text,
		Privacy:      privacy,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func NewComment(author *User, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return &Comment{
		ID:         uuid.NewString(),
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// --- RÈGLE DE VISIBILITÉ ---

// ViewableBy applique la règle, dans l'ordre : public -> oui,
// auteur -> oui, ami de l'auteur -> oui, sinon non.
// friendsOfRequester est le set d'amis du demandeur, calculé UNE fois
// par l'appelant (pas une fois par post).
func (p *Post) ViewableBy(requesterID string, friendsOfRequester map[string]bool) bool {
	if p.Privacy == PrivacyPublic {
		return true
	}
	if p.AuthorID == requesterID {
		return true
	}
	return friendsOfRequester[p.AuthorID]
}

// LikedBy vérifie l'appartenance au set de likes.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
