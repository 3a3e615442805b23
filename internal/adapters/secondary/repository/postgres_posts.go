package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jupiterclapton/circle/internal/core/domain"
)

type PostgresPostRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepo(pool *pgxpool.Pool) *PostgresPostRepo {
	return &PostgresPostRepo{db: pool}
}

const postColumns = `id, author_id, author_name, author_avatar, body, privacy, created_at`

func (r *PostgresPostRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, author_name, author_avatar, body, privacy, created_at)
		VALUES (@id, @author_id, @author_name, @author_avatar, @body, @privacy, @created_at)
	`
	args := pgx.NamedArgs{
		"id":            post.ID,
		"author_id":     post.AuthorID,
		"author_name":   post.AuthorName,
		"author_avatar": post.AuthorAvatar,
		"body":          post.Text,
		"privacy":       string(post.Privacy),
		"created_at":    post.CreatedAt,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return translatePgErr(err)
	}
	return nil
}

func (r *PostgresPostRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, q, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, translatePgErr(err)
	}

	if post.Likes, err = r.ListLikes(ctx, postID); err != nil {
		return nil, err
	}
	if post.Comments, err = r.ListComments(ctx, postID); err != nil {
		return nil, err
	}
	return post, nil
}

// ListRecent : pagination keyset (pas de OFFSET), puis hydratation des
// likes et commentaires de toute la page en deux requêtes batch. Le
// curseur compare (created_at, id) en row-value : les posts partageant
// le timestamp de frontière ne sont ni sautés ni répétés.
func (r *PostgresPostRepo) ListRecent(ctx context.Context, limit int, cursorTime time.Time, cursorID string) ([]*domain.Post, error) {
	var rows pgx.Rows
	var err error

	if cursorTime.IsZero() {
		q := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC LIMIT $1`
		rows, err = r.db.Query(ctx, q, limit)
	} else {
		q := `SELECT ` + postColumns + ` FROM posts WHERE (created_at, id) < ($1, $2) ORDER BY created_at DESC, id DESC LIMIT $3`
		rows, err = r.db.Query(ctx, q, cursorTime, cursorID, limit)
	}
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, translatePgErr(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgErr(err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]*domain.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Likes = []domain.Like{}
		p.Comments = []domain.Comment{}
	}

	if err := r.attachLikes(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, ids, byID); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepo) Delete(ctx context.Context, postID string) error {
	// Likes et commentaires partent avec le post (ON DELETE CASCADE).
	_, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	return translatePgErr(err)
}

// --- LIKES ---

// AddLike : "add-if-absent" atomique via la clé primaire (post_id,
// user_id). Deux likes concurrents du même user : un seul insère,
// l'autre voit ON CONFLICT et échoue ErrAlreadyLiked.
func (r *PostgresPostRepo) AddLike(ctx context.Context, postID, userID string) error {
	q := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, q, postID, userID, time.Now().UTC())
	if err != nil {
		return translateEngagementErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyLiked
	}
	return nil
}

func (r *PostgresPostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return translatePgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotLiked
	}
	return nil
}

func (r *PostgresPostRepo) ListLikes(ctx context.Context, postID string) ([]domain.Like, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, created_at FROM post_likes WHERE post_id = $1 ORDER BY created_at DESC`,
		postID)
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()

	likes := []domain.Like{}
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.UserID, &l.CreatedAt); err != nil {
			return nil, translatePgErr(err)
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}

// --- COMMENTAIRES ---

func (r *PostgresPostRepo) AddComment(ctx context.Context, postID string, c *domain.Comment) error {
	q := `
		INSERT INTO post_comments (id, post_id, author_id, author_name, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, q, c.ID, postID, c.AuthorID, c.AuthorName, c.Text, c.CreatedAt)
	return translateEngagementErr(err)
}

func (r *PostgresPostRepo) GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.QueryRow(ctx,
		`SELECT id, author_id, author_name, body, created_at
		 FROM post_comments WHERE id = $1 AND post_id = $2`,
		commentID, postID).
		Scan(&c.ID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, translatePgErr(err)
	}
	return &c, nil
}

// DeleteComment supprime PAR ID de commentaire : jamais sur un index
// recalculé, jamais sur l'auteur.
func (r *PostgresPostRepo) DeleteComment(ctx context.Context, postID, commentID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM post_comments WHERE id = $1 AND post_id = $2`, commentID, postID)
	if err != nil {
		return translatePgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *PostgresPostRepo) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, author_id, author_name, body, created_at
		 FROM post_comments WHERE post_id = $1 ORDER BY created_at DESC`,
		postID)
	if err != nil {
		return nil, translatePgErr(err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return nil, translatePgErr(err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// --- HELPERS ---

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	var privacy string
	err := row.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.AuthorAvatar, &p.Text, &privacy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Privacy = domain.Privacy(privacy)
	return &p, nil
}

func (r *PostgresPostRepo) attachLikes(ctx context.Context, ids []string, byID map[string]*domain.Post) error {
	rows, err := r.db.Query(ctx,
		`SELECT post_id, user_id, created_at FROM post_likes
		 WHERE post_id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return translatePgErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var l domain.Like
		if err := rows.Scan(&postID, &l.UserID, &l.CreatedAt); err != nil {
			return translatePgErr(err)
		}
		if p, ok := byID[postID]; ok {
			p.Likes = append(p.Likes, l)
		}
	}
	return rows.Err()
}

func (r *PostgresPostRepo) attachComments(ctx context.Context, ids []string, byID map[string]*domain.Post) error {
	rows, err := r.db.Query(ctx,
		`SELECT post_id, id, author_id, author_name, body, created_at FROM post_comments
		 WHERE post_id = ANY($1) ORDER BY created_at DESC`, ids)
	if err != nil {
		return translatePgErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var c domain.Comment
		if err := rows.Scan(&postID, &c.ID, &c.AuthorID, &c.AuthorName, &c.Text, &c.CreatedAt); err != nil {
			return translatePgErr(err)
		}
		if p, ok := byID[postID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return rows.Err()
}

// translateEngagementErr ajoute la traduction FK : liker ou commenter un
// post inexistant -> ErrPostNotFound.
func translateEngagementErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return domain.ErrPostNotFound
	}
	return translatePgErr(err)
}
