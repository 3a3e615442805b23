package domain

import (
	"crypto/md5"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// --- ENTITÉ ---

type User struct {
	ID           string
	Email        string
	Name         string
	Avatar       string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// --- FACTORY ---

// NewUser crée une instance valide. C'est le SEUL moyen de créer un user
// proprement (ID généré ici, pas en DB, et invariants vérifiés).
func NewUser(email, name, passwordHash string) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(strings.TrimSpace(name)) < 2 {
		return nil, ErrInvalidName
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	return &User{
		ID:           uuid.NewString(),
		Email:        normalized,
		Name:         strings.TrimSpace(name),
		Avatar:       gravatarURL(normalized),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(), // Toujours UTC
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// gravatarURL dérive un avatar déterministe de l'email
// (s=200 taille, r=pg rating, d=mm silhouette par défaut).
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
