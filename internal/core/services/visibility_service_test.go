package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

type visibilityFixture struct {
	posts *fakePostRepo
	graph *fakeGraphRepo
	cache *fakeCache
	svc   ports.VisibilityService
}

func newVisibilityFixture() *visibilityFixture {
	f := &visibilityFixture{
		posts: newFakePostRepo(),
		graph: newFakeGraphRepo(),
		cache: newFakeCache(),
	}
	f.svc = NewVisibilityService(f.posts, f.graph, f.cache)
	return f
}

func (f *visibilityFixture) addPost(t *testing.T, author *domain.User, text string, privacy domain.Privacy, at time.Time) *domain.Post {
	t.Helper()
	post, err := domain.NewPost(author, text, privacy)
	require.NoError(t, err)
	post.CreatedAt = at
	require.NoError(t, f.posts.Save(context.Background(), post))
	return post
}

func (f *visibilityFixture) befriend(a, b string) {
	f.graph.friends[edge{a, b}] = true
	f.graph.friends[edge{b, a}] = true
}

func TestListVisible_FiltersPrivatePosts(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	bob := mustUser("bob@example.com", "Bob")
	carol := mustUser("carol@example.com", "Carol")

	f := newVisibilityFixture()
	f.befriend(carol.ID, alice.ID)

	base := time.Now().UTC()
	public := f.addPost(t, alice, "hello world", domain.PrivacyPublic, base.Add(-3*time.Minute))
	friendsOnly := f.addPost(t, alice, "inner circle", domain.PrivacyFriends, base.Add(-2*time.Minute))
	stranger := f.addPost(t, bob, "strangers only", domain.PrivacyFriends, base.Add(-1*time.Minute))

	visible, _, err := f.svc.ListVisible(context.Background(), carol.ID, 10, "")
	require.NoError(t, err)

	ids := make([]string, 0, len(visible))
	for _, p := range visible {
		ids = append(ids, p.ID)
	}
	// Carol voit le public et le posts-amis d'Alice, pas celui de Bob.
	assert.Contains(t, ids, public.ID)
	assert.Contains(t, ids, friendsOnly.ID)
	assert.NotContains(t, ids, stranger.ID)
}

func TestListVisible_AuthorSeesOwnPrivatePosts(t *testing.T) {
	bob := mustUser("bob@example.com", "Bob")

	f := newVisibilityFixture()
	post := f.addPost(t, bob, "note to self", domain.PrivacyFriends, time.Now().UTC())

	visible, _, err := f.svc.ListVisible(context.Background(), bob.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, post.ID, visible[0].ID)
}

func TestListVisible_MostRecentFirst(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")

	f := newVisibilityFixture()
	base := time.Now().UTC()
	old := f.addPost(t, alice, "old", domain.PrivacyPublic, base.Add(-2*time.Hour))
	recent := f.addPost(t, alice, "recent", domain.PrivacyPublic, base)

	visible, _, err := f.svc.ListVisible(context.Background(), alice.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, recent.ID, visible[0].ID)
	assert.Equal(t, old.ID, visible[1].ID)
}

func TestListVisible_KeysetPagination(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")

	f := newVisibilityFixture()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		f.addPost(t, alice, fmt.Sprintf("post %d", i), domain.PrivacyPublic, base.Add(-time.Duration(i)*time.Minute))
	}

	page1, cursor, err := f.svc.ListVisible(context.Background(), alice.ID, 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, cursor)

	page2, _, err := f.svc.ListVisible(context.Background(), alice.ID, 2, cursor)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	// Pas de chevauchement entre pages.
	assert.NotEqual(t, page1[1].ID, page2[0].ID)
	assert.True(t, page1[1].CreatedAt.After(page2[0].CreatedAt))
}

// Des posts créés dans la même milliseconde (import batch, horloge
// grossière) partagent un created_at : l'id départage la frontière de
// page, aucun post ne saute ni ne se répète.
func TestListVisible_EqualTimestampsPaginateWithoutSkips(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")

	f := newVisibilityFixture()
	at := time.Now().UTC().Truncate(time.Millisecond)
	want := map[string]bool{}
	for i := 0; i < 5; i++ {
		p := f.addPost(t, alice, fmt.Sprintf("burst %d", i), domain.PrivacyPublic, at)
		want[p.ID] = true
	}

	seen := map[string]bool{}
	cursor := ""
	for page := 0; page < 4; page++ {
		posts, next, err := f.svc.ListVisible(context.Background(), alice.ID, 2, cursor)
		require.NoError(t, err)
		for _, p := range posts {
			require.False(t, seen[p.ID], "post répété entre deux pages")
			seen[p.ID] = true
		}
		if next == "" {
			break
		}
		cursor = next
	}
	assert.Equal(t, want, seen, "chaque post doit apparaître exactement une fois")
}

func TestListVisible_InvalidCursor(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	f := newVisibilityFixture()

	_, _, err := f.svc.ListVisible(context.Background(), alice.ID, 10, "not-a-timestamp")
	assert.EqualError(t, err, "invalid page token")

	// Un token sans la partie id est lui aussi refusé.
	_, _, err = f.svc.ListVisible(context.Background(), alice.ID, 10, time.Now().UTC().Format(time.RFC3339Nano))
	assert.EqualError(t, err, "invalid page token")
}

func TestListVisible_SingleFriendSetLookupPerPage(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")

	f := newVisibilityFixture()
	base := time.Now().UTC()
	for i := 0; i < 10; i++ {
		f.addPost(t, alice, fmt.Sprintf("post %d", i), domain.PrivacyPublic, base.Add(-time.Duration(i)*time.Second))
	}

	_, _, err := f.svc.ListVisible(context.Background(), alice.ID, 10, "")
	require.NoError(t, err)

	// Le set d'amis est calculé une fois par page, pas une fois par post.
	assert.Equal(t, 1, f.cache.gets)
}

func TestListVisible_CacheDownFallsBackToGraph(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	bob := mustUser("bob@example.com", "Bob")

	f := newVisibilityFixture()
	f.befriend(alice.ID, bob.ID)
	f.cache.failing = true
	post := f.addPost(t, bob, "friends only", domain.PrivacyFriends, time.Now().UTC())

	visible, _, err := f.svc.ListVisible(context.Background(), alice.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, post.ID, visible[0].ID)
}

func TestGetPost_PrivateDeniedAsNotFound(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	bob := mustUser("bob@example.com", "Bob")

	f := newVisibilityFixture()
	post := f.addPost(t, bob, "secret", domain.PrivacyFriends, time.Now().UTC())

	// Non-ami : le post privé n'existe pas, du point de vue d'Alice.
	_, err := f.svc.GetPost(context.Background(), alice.ID, post.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestGetPost_FriendSeesPrivate(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	bob := mustUser("bob@example.com", "Bob")

	f := newVisibilityFixture()
	f.befriend(alice.ID, bob.ID)
	post := f.addPost(t, bob, "secret", domain.PrivacyFriends, time.Now().UTC())

	got, err := f.svc.GetPost(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestGetPost_PublicVisibleToAnyone(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	bob := mustUser("bob@example.com", "Bob")

	f := newVisibilityFixture()
	post := f.addPost(t, bob, "open", domain.PrivacyPublic, time.Now().UTC())

	got, err := f.svc.GetPost(context.Background(), alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestGetPost_Missing(t *testing.T) {
	alice := mustUser("alice@example.com", "Alice")
	f := newVisibilityFixture()

	_, err := f.svc.GetPost(context.Background(), alice.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}
