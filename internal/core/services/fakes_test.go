package services

import (
	"context"
	"sort"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
)

// Fakes en mémoire des ports secondaires. Ils reproduisent les contrats
// des vrais adapters (erreurs sentinelles comprises) sans infra.

// --- USERS ---

type fakeUserRepo struct {
	byID    map[string]*domain.User
	ordered []string // ordre d'insertion = ordre annuaire
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Save(_ context.Context, user *domain.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email && u.ID != user.ID {
			return domain.ErrEmailAlreadyExists
		}
	}
	if _, exists := r.byID[user.ID]; !exists {
		r.ordered = append(r.ordered, user.ID)
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUnknownUser
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUnknownUser
}

func (r *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			users = append(users, u)
		}
	}
	// L'ordre n'est pas garanti par le contrat : on le brouille
	// volontairement pour attraper les appelants qui s'y fieraient.
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(r.ordered))
	for _, id := range r.ordered {
		if u, ok := r.byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

// --- GRAPHE ---

type edge struct{ from, to string }

type fakeGraphRepo struct {
	friends map[edge]bool
	pending []edge // ordre d'arrivée, le plus ancien en premier
}

func newFakeGraphRepo() *fakeGraphRepo {
	return &fakeGraphRepo{friends: map[edge]bool{}}
}

func (g *fakeGraphRepo) EnsureSchema(_ context.Context) error { return nil }

func (g *fakeGraphRepo) CreatePending(_ context.Context, senderID, targetID string) error {
	g.pending = append(g.pending, edge{senderID, targetID})
	return nil
}

func (g *fakeGraphRepo) HasPending(_ context.Context, senderID, targetID string) (bool, error) {
	for _, p := range g.pending {
		if p.from == senderID && p.to == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (g *fakeGraphRepo) AcceptRequest(_ context.Context, accepterID, requesterID string) error {
	found := false
	for _, p := range g.pending {
		if p.from == requesterID && p.to == accepterID {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrNoSuchRequest
	}

	// Consommation de la demande ET de la demande croisée éventuelle,
	// comme la transaction Neo4j : tout ou rien.
	kept := make([]edge, 0, len(g.pending))
	for _, p := range g.pending {
		if p.from == requesterID && p.to == accepterID {
			continue
		}
		if p.from == accepterID && p.to == requesterID {
			continue
		}
		kept = append(kept, p)
	}
	g.pending = kept
	g.friends[edge{accepterID, requesterID}] = true
	g.friends[edge{requesterID, accepterID}] = true
	return nil
}

func (g *fakeGraphRepo) AreFriends(_ context.Context, a, b string) (bool, error) {
	return g.friends[edge{a, b}], nil
}

func (g *fakeGraphRepo) FriendIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	for e := range g.friends {
		if e.from == userID {
			ids = append(ids, e.to)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (g *fakeGraphRepo) PendingSenderIDs(_ context.Context, userID string) ([]string, error) {
	ids := []string{}
	// Plus récent en premier, comme l'ORDER BY du vrai repo.
	for i := len(g.pending) - 1; i >= 0; i-- {
		if g.pending[i].to == userID {
			ids = append(ids, g.pending[i].from)
		}
	}
	return ids, nil
}

func (g *fakeGraphRepo) RemoveUser(_ context.Context, userID string) error {
	for e := range g.friends {
		if e.from == userID || e.to == userID {
			delete(g.friends, e)
		}
	}
	kept := g.pending[:0]
	for _, p := range g.pending {
		if p.from != userID && p.to != userID {
			kept = append(kept, p)
		}
	}
	g.pending = kept
	return nil
}

// --- CACHE ---

type fakeCache struct {
	sets        map[string][]string
	gets        int
	invalidated []string
	failing     bool // simule un Redis en panne
}

func newFakeCache() *fakeCache {
	return &fakeCache{sets: map[string][]string{}}
}

func (c *fakeCache) Get(_ context.Context, userID string) ([]string, bool, error) {
	c.gets++
	if c.failing {
		return nil, false, context.DeadlineExceeded
	}
	ids, ok := c.sets[userID]
	return ids, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, friendIDs []string) error {
	if c.failing {
		return context.DeadlineExceeded
	}
	c.sets[userID] = friendIDs
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		delete(c.sets, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

// --- BROKER ---

type fakeBroker struct {
	published []string // sujets, dans l'ordre
	failing   bool
}

func (b *fakeBroker) record(subject string) error {
	if b.failing {
		return context.DeadlineExceeded
	}
	b.published = append(b.published, subject)
	return nil
}

func (b *fakeBroker) PublishUserRegistered(_ context.Context, _, _ string) error {
	return b.record("social.user.registered")
}

func (b *fakeBroker) PublishFriendAccepted(_ context.Context, _, _ string) error {
	return b.record("social.friend.accepted")
}

func (b *fakeBroker) PublishPostCreated(_ context.Context, _ *domain.Post) error {
	return b.record("social.post.created")
}

func (b *fakeBroker) PublishPostDeleted(_ context.Context, _ string) error {
	return b.record("social.post.deleted")
}

// --- POSTS ---

type fakePostRepo struct {
	posts map[string]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*domain.Post{}}
}

func (r *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	stored := *post
	r.posts[post.ID] = &stored
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, postID string) (*domain.Post, error) {
	if p, ok := r.posts[postID]; ok {
		return p, nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *fakePostRepo) ListRecent(_ context.Context, limit int, cursorTime time.Time, cursorID string) ([]*domain.Post, error) {
	all := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if !cursorTime.IsZero() {
			// Comparaison (created_at, id), comme le row-value SQL.
			if p.CreatedAt.After(cursorTime) {
				continue
			}
			if p.CreatedAt.Equal(cursorTime) && p.ID >= cursorID {
				continue
			}
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePostRepo) Delete(_ context.Context, postID string) error {
	delete(r.posts, postID)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if p.LikedBy(userID) {
		return domain.ErrAlreadyLiked
	}
	p.Likes = append([]domain.Like{{UserID: userID, CreatedAt: time.Now().UTC()}}, p.Likes...)
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	for i, l := range p.Likes {
		if l.UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotLiked
}

func (r *fakePostRepo) ListLikes(_ context.Context, postID string) ([]domain.Like, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return p.Likes, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, c *domain.Comment) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Comments = append([]domain.Comment{*c}, p.Comments...)
	return nil
}

func (r *fakePostRepo) GetComment(_ context.Context, postID, commentID string) (*domain.Comment, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (r *fakePostRepo) DeleteComment(_ context.Context, postID, commentID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrCommentNotFound
}

func (r *fakePostRepo) ListComments(_ context.Context, postID string) ([]domain.Comment, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return p.Comments, nil
}

// --- PROFILS ---

type fakeProfileRepo struct {
	byUser map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[string]*domain.Profile{}}
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *domain.Profile) error {
	stored := *profile
	r.byUser[profile.UserID] = &stored
	return nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	if p, ok := r.byUser[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *fakeProfileRepo) ListAll(_ context.Context) ([]*domain.Profile, error) {
	profiles := make([]*domain.Profile, 0, len(r.byUser))
	for _, p := range r.byUser {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles, nil
}

func (r *fakeProfileRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.byUser, userID)
	return nil
}

// --- SÉCURITÉ (stubs) ---

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (stubHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubTokens struct{}

func (stubTokens) Generate(user *domain.User) (string, error) { return "token:" + user.ID, nil }

func (stubTokens) Validate(token string) (string, error) {
	if len(token) <= len("token:") || token[:len("token:")] != "token:" {
		return "", domain.ErrInvalidToken
	}
	return token[len("token:"):], nil
}

// --- HELPERS ---

func mustUser(email, name string) *domain.User {
	u, err := domain.NewUser(email, name, "hashed:secret123")
	if err != nil {
		panic(err)
	}
	return u
}
