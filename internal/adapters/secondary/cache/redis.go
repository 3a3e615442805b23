package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFriendSetCache garde le set d'amis de chaque utilisateur dans un
// SET Redis à courte durée de vie. Un set vide est traité comme un miss :
// recalculer zéro ami coûte une traversée triviale du graphe, alors que
// distinguer "vide" de "absent" coûterait une sentinelle à maintenir.
type RedisFriendSetCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFriendSetCache(client *redis.Client) *RedisFriendSetCache {
	return &RedisFriendSetCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func key(userID string) string {
	return fmt.Sprintf("friends:%s", userID)
}

func (c *RedisFriendSetCache) Get(ctx context.Context, userID string) ([]string, bool, error) {
	ids, err := c.client.SMembers(ctx, key(userID)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(ids) == 0 {
		return nil, false, nil
	}
	return ids, true, nil
}

func (c *RedisFriendSetCache) Set(ctx context.Context, userID string, friendIDs []string) error {
	if len(friendIDs) == 0 {
		return nil
	}

	k := key(userID)
	pipe := c.client.Pipeline()
	pipe.Del(ctx, k)
	pipe.SAdd(ctx, k, toMembers(friendIDs)...)
	pipe.Expire(ctx, k, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate supprime les entrées des participants : toute acceptation
// d'amitié invalide LES DEUX côtés, sinon une entrée périmée ferait
// filtrer un feed avec un set d'amis faux.
func (c *RedisFriendSetCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = key(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

func toMembers(ids []string) []any {
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	return members
}
