package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"salonbook/models"
)

// SessionStore keeps in-flight booking conversations alive between calls.
// A session holds the identity details gathered so far so that the
// idempotency key stays stable across retries of the same conversation.
type SessionStore interface {
	Create(ctx context.Context, session *models.BookingSession) (string, error)
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Update(ctx context.Context, session *models.BookingSession) error
	Delete(ctx context.Context, sessionID string) error
}

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("booking_session:%s", sessionID)
}

func (s *RedisSessionStore) Create(ctx context.Context, session *models.BookingSession) (string, error) {
	if session.SessionID == "" {
		session.SessionID = uuid.NewString()
	}
	session.CreatedAt = time.Now().UTC()
	if err := s.write(ctx, session); err != nil {
		return "", err
	}
	return session.SessionID, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	raw, err := s.Client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, NewBookingError(CodeNotFound, "booking session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", sessionID, err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Update(ctx context.Context, session *models.BookingSession) error {
	if session.SessionID == "" {
		return NewBookingError(CodeValidation, "session id is required")
	}
	return s.write(ctx, session)
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisSessionStore) write(ctx context.Context, session *models.BookingSession) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(session.SessionID), blob, s.TTL).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}
