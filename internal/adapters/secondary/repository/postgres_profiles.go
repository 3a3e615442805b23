package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jupiterclapton/circle/internal/core/domain"
)

// DTOs internes pour mapper le JSONB proprement, sans polluer le domaine
// avec des tags JSON.
type socialDTO struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type experienceDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location,omitempty"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to,omitempty"`
	Current     bool      `json:"current"`
	Description string    `json:"description,omitempty"`
}

type educationDTO struct {
	ID           string    `json:"id"`
	School       string    `json:"school"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"fieldofstudy"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to,omitempty"`
	Current      bool      `json:"current"`
	Description  string    `json:"description,omitempty"`
}

type PostgresProfileRepo struct {
	db *pgxpool.Pool
}

func NewPostgresProfileRepo(pool *pgxpool.Pool) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: pool}
}

func (r *PostgresProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	q := `
		INSERT INTO profiles (user_id, status, skills, bio, company, website, location,
		                      github_username, social, experience, education, created_at, updated_at)
		VALUES (@user_id, @status, @skills, @bio, @company, @website, @location,
		        @github_username, @social, @experience, @education, @created_at, @updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			status = EXCLUDED.status,
			skills = EXCLUDED.skills,
			bio = EXCLUDED.bio,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			github_username = EXCLUDED.github_username,
			social = EXCLUDED.social,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education,
			updated_at = EXCLUDED.updated_at
	`

	socialJSON, err := json.Marshal(socialDTO(p.Social))
	if err != nil {
		return fmt.Errorf("marshal social: %w", err)
	}
	expJSON, err := json.Marshal(toExperienceDTOs(p.Experience))
	if err != nil {
		return fmt.Errorf("marshal experience: %w", err)
	}
	eduJSON, err := json.Marshal(toEducationDTOs(p.Education))
	if err != nil {
		return fmt.Errorf("marshal education: %w", err)
	}

	args := pgx.NamedArgs{
		"user_id":         p.UserID,
		"status":          p.Status,
		"skills":          p.Skills,
		"bio":             p.Bio,
		"company":         p.Company,
		"website":         p.Website,
		"location":        p.Location,
		"github_username": p.GithubUsername,
		"social":          socialJSON,
		"experience":      expJSON,
		"education":       eduJSON,
		"created_at":      p.CreatedAt,
		"updated_at":      p.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translatePgErr(err)
	}
	return nil
}

const profileColumns = `user_id, status, skills, bio, company, website, location,
	github_username, social, experience, education, created_at, updated_at`

func (r *PostgresProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, translatePgErr(err)
	}
	return p, nil
}

func (r *PostgresProfileRepo) ListAll(ctx context.Context) ([]*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, translatePgErr(err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *PostgresProfileRepo) Delete(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return translatePgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// --- HELPERS ---

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var socialJSON, expJSON, eduJSON []byte

	err := row.Scan(&p.UserID, &p.Status, &p.Skills, &p.Bio, &p.Company, &p.Website,
		&p.Location, &p.GithubUsername, &socialJSON, &expJSON, &eduJSON,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	var social socialDTO
	if err := json.Unmarshal(socialJSON, &social); err == nil {
		p.Social = domain.SocialLinks(social)
	}

	var exps []experienceDTO
	if err := json.Unmarshal(expJSON, &exps); err == nil {
		p.Experience = fromExperienceDTOs(exps)
	}

	var edus []educationDTO
	if err := json.Unmarshal(eduJSON, &edus); err == nil {
		p.Education = fromEducationDTOs(edus)
	}

	return &p, nil
}

func toExperienceDTOs(in []domain.Experience) []experienceDTO {
	out := make([]experienceDTO, len(in))
	for i, e := range in {
		out[i] = experienceDTO(e)
	}
	return out
}

func fromExperienceDTOs(in []experienceDTO) []domain.Experience {
	out := make([]domain.Experience, len(in))
	for i, e := range in {
		out[i] = domain.Experience(e)
	}
	return out
}

func toEducationDTOs(in []domain.Education) []educationDTO {
	out := make([]educationDTO, len(in))
	for i, e := range in {
		out[i] = educationDTO(e)
	}
	return out
}

func fromEducationDTOs(in []educationDTO) []domain.Education {
	out := make([]domain.Education, len(in))
	for i, e := range in {
		out[i] = domain.Education(e)
	}
	return out
}
