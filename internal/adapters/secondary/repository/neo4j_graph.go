package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jGraphRepo stocke le graphe social : arêtes PENDING (demande
// dirigée, horodatée) et FRIEND (toujours créées dans les deux sens au
// sein d'une même transaction, la symétrie est structurelle).
type Neo4jGraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraphRepo(driver neo4j.DriverWithContext) *Neo4jGraphRepo {
	return &Neo4jGraphRepo{driver: driver}
}

// EnsureSchema crée la contrainte d'unicité sur User.id (et donc l'index
// qui rend les lookups O(1)). Idempotent.
func (r *Neo4jGraphRepo) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`
		_, err := tx.Run(ctx, query, nil)
		return nil, err
	})
	return translateNeo4jErr(err)
}

func (r *Neo4jGraphRepo) CreatePending(ctx context.Context, senderID, targetID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MERGE : les noeuds apparaissent à la première demande, et deux
		// envois concurrents du même sender ne créent qu'une arête.
		query := `
			MERGE (s:User {id: $senderId})
			MERGE (t:User {id: $targetId})
			MERGE (s)-[p:PENDING]->(t)
			ON CREATE SET p.created_at = datetime()
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"senderId": senderID,
			"targetId": targetID,
		})
		return nil, err
	})
	return translateNeo4jErr(err)
}

func (r *Neo4jGraphRepo) HasPending(ctx context.Context, senderID, targetID string) (bool, error) {
	return r.edgeExists(ctx, senderID, targetID, "PENDING")
}

func (r *Neo4jGraphRepo) AreFriends(ctx context.Context, a, b string) (bool, error) {
	return r.edgeExists(ctx, a, b, "FRIEND")
}

func (r *Neo4jGraphRepo) edgeExists(ctx context.Context, fromID, toID, relType string) (bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (a:User {id: $fromId}), (b:User {id: $toId})
			RETURN EXISTS((a)-[:%s]->(b)) as present
		`, relType)
		res, err := tx.Run(ctx, query, map[string]any{"fromId": fromID, "toId": toID})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			present, _ := res.Record().Get("present")
			return present.(bool), nil
		}
		// Noeud(s) absent(s) du graphe : pas de relation possible.
		return false, res.Err()
	})
	if err != nil {
		return false, translateNeo4jErr(err)
	}
	return result.(bool), nil
}

// AcceptRequest consomme la demande requester -> accepter et crée les
// deux arêtes FRIEND dans LA MÊME transaction managée : les deux profils
// changent ensemble ou pas du tout. La demande CROISÉE (accepter ->
// requester), si elle existe, part dans la même transaction : personne
// ne reste en attente d'un utilisateur déjà ami. Zéro ligne retournée =
// pas de demande en attente.
func (r *Neo4jGraphRepo) AcceptRequest(ctx context.Context, accepterID, requesterID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (req:User {id: $requesterId})-[p:PENDING]->(acc:User {id: $accepterId})
			OPTIONAL MATCH (acc)-[q:PENDING]->(req)
			DELETE p, q
			MERGE (acc)-[f:FRIEND]->(req)
			ON CREATE SET f.created_at = datetime()
			MERGE (req)-[g:FRIEND]->(acc)
			ON CREATE SET g.created_at = datetime()
			RETURN acc.id as accepted
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"requesterId": requesterID,
			"accepterId":  accepterID,
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return nil, domain.ErrNoSuchRequest
		}
		return nil, nil
	})
	if errors.Is(err, domain.ErrNoSuchRequest) {
		return domain.ErrNoSuchRequest
	}
	return translateNeo4jErr(err)
}

func (r *Neo4jGraphRepo) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx,
		`MATCH (u:User {id: $userId})-[:FRIEND]->(f:User) RETURN f.id as id`,
		map[string]any{"userId": userID})
}

// PendingSenderIDs : file des demandeurs, plus récent en premier.
func (r *Neo4jGraphRepo) PendingSenderIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx,
		`MATCH (s:User)-[p:PENDING]->(u:User {id: $userId})
		 RETURN s.id as id ORDER BY p.created_at DESC`,
		map[string]any{"userId": userID})
}

func (r *Neo4jGraphRepo) collectIDs(ctx context.Context, query string, params map[string]any) ([]string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		ids := []string{}
		for res.Next(ctx) {
			v, _ := res.Record().Get("id")
			ids = append(ids, v.(string))
		}
		return ids, res.Err()
	})
	if err != nil {
		return nil, translateNeo4jErr(err)
	}
	return result.([]string), nil
}

func (r *Neo4jGraphRepo) RemoveUser(ctx context.Context, userID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			`MATCH (u:User {id: $userId}) DETACH DELETE u`,
			map[string]any{"userId": userID})
		return nil, err
	})
	return translateNeo4jErr(err)
}

// translateNeo4jErr traduit les pannes de transport en
// domain.ErrStoreUnavailable : c'est la seule erreur retentable.
func translateNeo4jErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("neo4j: %v: %w", err, domain.ErrStoreUnavailable)
	}
	if neo4j.IsConnectivityError(err) {
		return fmt.Errorf("neo4j: %v: %w", err, domain.ErrStoreUnavailable)
	}
	return err
}
