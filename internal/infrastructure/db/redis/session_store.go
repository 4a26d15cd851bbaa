package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/authgate/internal/core/domain"
)

// SessionStore keeps sessions in Redis hashes so several processes can
// share them. Keys never expire.
// Key format: session:<token>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sess := domain.NewSession(uuid.NewString(), user, time.Now().UTC())
	err := s.client.HSet(ctx, s.key(sess.Token),
		"user_id", sess.UserID,
		"role", string(sess.RoleSnapshot),
		"created_at", sess.CreatedAt.Unix(),
	).Err()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	return decodeSession(token, fields)
}

// decodeSession rebuilds a session from its hash fields.
func decodeSession(token string, fields map[string]string) (*domain.Session, error) {
	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session user_id: %w", err)
	}
	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session created_at: %w", err)
	}

	return &domain.Session{
		Token:        token,
		UserID:       userID,
		RoleSnapshot: domain.Role(fields["role"]),
		CreatedAt:    time.Unix(created, 0).UTC(),
	}, nil
}

// Destroy deletes the key; deleting a missing key is not an error.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping checks that Redis answers.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}
