package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile porte les champs libres d'un utilisateur (statut, bio,
// expériences...). Les relations d'amitié vivent dans le graphe,
// pas ici : le profil n'a pas d'invariant relationnel.
type Profile struct {
	UserID         string // immuable
	Status         string
	Skills         []string
	Bio            string
	Company        string
	Website        string
	Location       string
	GithubUsername string
	Social         SocialLinks
	Experience     []Experience
	Education      []Education
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type SocialLinks struct {
	Youtube   string
	Twitter   string
	Facebook  string
	Linkedin  string
	Instagram string
}

type Experience struct {
	ID          string
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          time.Time
	Current     bool
	Description string
}

type Education struct {
	ID           string
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           time.Time
	Current      bool
	Description  string
}

func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func (p *Profile) touch() {
	p.UpdatedAt = time.Now().UTC()
}

// AddExperience insère en tête (plus récent en premier) et attribue l'ID.
func (p *Profile) AddExperience(exp Experience) Experience {
	exp.ID = uuid.NewString()
	p.Experience = append([]Experience{exp}, p.Experience...)
	p.touch()
	return exp
}

// RemoveExperience retire l'entrée par IDENTITÉ, jamais par index
// recalculé : supprimer un id absent est un no-op signalé.
func (p *Profile) RemoveExperience(id string) bool {
	for i, e := range p.Experience {
		if e.ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}

func (p *Profile) AddEducation(edu Education) Education {
	edu.ID = uuid.NewString()
	p.Education = append([]Education{edu}, p.Education...)
	p.touch()
	return edu
}

func (p *Profile) RemoveEducation(id string) bool {
	for i, e := range p.Education {
		if e.ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			p.touch()
			return true
		}
	}
	return false
}
