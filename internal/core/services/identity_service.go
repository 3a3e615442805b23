package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/circle/internal/core/domain"
	"github.com/jupiterclapton/circle/internal/core/ports"
)

type identityService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenProvider
	broker   ports.EventPublisher
	tokenTTL time.Duration
}

// NewIdentityService reçoit la durée de vie des tokens de la config :
// elle doit être la même que celle du signataire JWT.
func NewIdentityService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenProvider,
	broker ports.EventPublisher,
	tokenTTL time.Duration,
) ports.IdentityService {
	return &identityService{users: users, hasher: hasher, tokens: tokens, broker: broker, tokenTTL: tokenTTL}
}

func (s *identityService) Register(ctx context.Context, cmd ports.RegisterCmd) (*ports.AuthResponse, error) {
	// Vérification "soft" de l'unicité ; la contrainte UNIQUE de la DB
	// reste la sécurité ultime contre la race.
	if existing, err := s.users.GetByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := domain.NewUser(cmd.Email, cmd.Name, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		// User créé mais token raté : le client pourra retenter le login.
		return nil, fmt.Errorf("token generation failed: %w", err)
	}

	if err := s.broker.PublishUserRegistered(ctx, user.ID, user.Email); err != nil {
		slog.Warn("user.registered event not published", "user_id", user.ID, "error", err)
	}

	return &ports.AuthResponse{User: user, Token: token, ExpiresIn: s.tokenTTL}, nil
}

func (s *identityService) Login(ctx context.Context, cmd ports.LoginCmd) (*ports.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		// Ne jamais dire si c'est l'email ou le mot de passe qui est faux.
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("login token gen failed: %w", err)
	}

	return &ports.AuthResponse{User: user, Token: token, ExpiresIn: s.tokenTTL}, nil
}

func (s *identityService) ValidateToken(_ context.Context, token string) (string, error) {
	return s.tokens.Validate(token)
}

func (s *identityService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
