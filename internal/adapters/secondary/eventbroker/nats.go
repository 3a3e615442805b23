package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	StreamName     = "SOCIAL"
	SubjectPattern = "social.>"
)

// NatsBroker publie les événements du domaine sur JetStream. Les
// consommateurs (notifications, fan-out de feed) filtrent par sujet.
type NatsBroker struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNatsBroker se connecte et s'assure que le Stream existe (idempotent).
func NewNatsBroker(url string) (*NatsBroker, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1, // 3 en cluster
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{nc: nc, js: js}, nil
}

// Close draine la connexion proprement (flush des publications en vol).
func (b *NatsBroker) Close() {
	if err := b.nc.Drain(); err != nil {
		slog.Warn("nats drain failed", "error", err)
	}
}

// --- PAYLOADS (contrat implicite avec les consommateurs) ---

type userRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type friendAcceptedEvent struct {
	AccepterID  string    `json:"accepter_id"`
	RequesterID string    `json:"requester_id"`
	AcceptedAt  time.Time `json:"accepted_at"`
}

type postCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Privacy   string    `json:"privacy"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *NatsBroker) PublishUserRegistered(ctx context.Context, userID, email string) error {
	return b.publish(ctx, "social.user.registered", userRegisteredEvent{UserID: userID, Email: email})
}

func (b *NatsBroker) PublishFriendAccepted(ctx context.Context, accepterID, requesterID string) error {
	return b.publish(ctx, "social.friend.accepted", friendAcceptedEvent{
		AccepterID:  accepterID,
		RequesterID: requesterID,
		AcceptedAt:  time.Now().UTC(),
	})
}

func (b *NatsBroker) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return b.publish(ctx, "social.post.created", postCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Privacy:   string(post.Privacy),
		CreatedAt: post.CreatedAt,
	})
}

func (b *NatsBroker) PublishPostDeleted(ctx context.Context, postID string) error {
	return b.publish(ctx, "social.post.deleted", map[string]string{"id": postID})
}

func (b *NatsBroker) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// Le trace-id du contexte part dans les headers NATS : le
	// consommateur reprend la trace là où elle s'arrête ici.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Debug("📢 publishing event", "subject", subject)

	if _, err := b.js.PublishMsg(ctx, msg); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}
