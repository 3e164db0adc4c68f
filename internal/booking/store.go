package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"tourly/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps live booking sessions for the duration of one booking
// attempt. Sessions expire out of the store on their own; finalized
// outcomes live in the record repository instead.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// IndexPayable maps a wallet payable request to its owning session so
	// completion signals can be attributed without carrying the session id
	IndexPayable(ctx context.Context, payableRequestID string, sessionID uuid.UUID) error
	LookupPayable(ctx context.Context, payableRequestID string) (uuid.UUID, error)
}

// redisStore is the production session store
type redisStore struct {
	client     *redis.Client
	sessionTTL time.Duration
	payableTTL time.Duration
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client *redis.Client, sessionTTL, payableTTL time.Duration) SessionStore {
	return &redisStore{
		client:     client,
		sessionTTL: sessionTTL,
		payableTTL: payableTTL,
	}
}

func (s *redisStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := constants.SessionKey(session.ID.String())
	if err := s.client.Set(ctx, key, data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *redisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	key := constants.SessionKey(id.String())
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *redisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, constants.SessionKey(id.String())).Err()
}

func (s *redisStore) IndexPayable(ctx context.Context, payableRequestID string, sessionID uuid.UUID) error {
	key := constants.PayableKey(payableRequestID)
	if err := s.client.Set(ctx, key, sessionID.String(), s.payableTTL).Err(); err != nil {
		return fmt.Errorf("failed to index payable request: %w", err)
	}
	return nil
}

func (s *redisStore) LookupPayable(ctx context.Context, payableRequestID string) (uuid.UUID, error) {
	key := constants.PayableKey(payableRequestID)
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return uuid.Nil, ErrPayableNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to look up payable request: %w", err)
	}

	sessionID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt payable index entry: %w", err)
	}
	return sessionID, nil
}

// memoryStore holds sessions in process memory. Used by tests and by
// single-node development without Redis; sessions do not survive restarts.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID][]byte
	payables map[string]uuid.UUID
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore() SessionStore {
	return &memoryStore{
		sessions: make(map[uuid.UUID][]byte),
		payables: make(map[string]uuid.UUID),
	}
}

func (s *memoryStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = data
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *memoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) IndexPayable(ctx context.Context, payableRequestID string, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payables[payableRequestID] = sessionID
	return nil
}

func (s *memoryStore) LookupPayable(ctx context.Context, payableRequestID string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.payables[payableRequestID]
	if !ok {
		return uuid.Nil, ErrPayableNotFound
	}
	return sessionID, nil
}
