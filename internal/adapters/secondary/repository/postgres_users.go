package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jupiterclapton/circle/internal/core/domain"
)

// sqlUser est le DTO tampon entre la base et le domaine.
type sqlUser struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	Avatar       string    `db:"avatar"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const userColumns = `id, email, name, avatar, password_hash, created_at, updated_at`

type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, user *domain.User) error {
	q := `
		INSERT INTO users (id, email, name, avatar, password_hash, created_at, updated_at)
		VALUES (@id, @email, @name, @avatar, @password_hash, @created_at, @updated_at)
	`
	args := pgx.NamedArgs{
		"id":            user.ID,
		"email":         user.Email,
		"name":          user.Name,
		"avatar":        user.Avatar,
		"password_hash": user.PasswordHash,
		"created_at":    user.CreatedAt,
		"updated_at":    user.UpdatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translatePgErr(err)
	}
	return nil
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

// GetByIDs : hydratation en lot avec ANY($1), une seule requête SQL.
func (r *PostgresUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListAll : l'annuaire, ordre stable par date d'inscription.
func (r *PostgresUserRepo) ListAll(ctx context.Context) ([]*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *PostgresUserRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return translatePgErr(err)
}

// --- HELPERS ---

func (r *PostgresUserRepo) scanOne(row pgx.Row) (*domain.User, error) {
	var u sqlUser
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownUser // Traduction technique -> domaine
		}
		return nil, translatePgErr(err)
	}
	return u.toDomain(), nil
}

func (r *PostgresUserRepo) collect(rows pgx.Rows) ([]*domain.User, error) {
	users := []*domain.User{}
	for rows.Next() {
		var u sqlUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, translatePgErr(err)
		}
		users = append(users, u.toDomain())
	}
	return users, rows.Err()
}

func (u *sqlUser) toDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// translatePgErr traduit les codes PostgreSQL en erreurs du domaine.
func translatePgErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique violation
		if pgErr.Code == "23505" {
			return domain.ErrEmailAlreadyExists
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("postgres: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return err
}
