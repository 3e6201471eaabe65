package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dapurkita/restaurant-manager/config"
	"github.com/dapurkita/restaurant-manager/utils"
)

// CartLine is one entry of the session cart. Name and UnitPrice are cached
// for display; checkout re-reads prices from menu_items.
type CartLine struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
}

// Session is the per-browser state: cart contents and the CSRF token.
type Session struct {
	ID        string     `json:"id"`
	CSRFToken string     `json:"csrf_token"`
	Cart      []CartLine `json:"cart"`
}

// SessionStore abstracts where sessions live so handlers never touch
// ambient globals. Get returns (nil, nil) when the session does not exist.
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Destroy(ctx context.Context, id string) error
}

// NewSession creates an empty session with a fresh CSRF token.
func NewSession() (*Session, error) {
	token, err := utils.NewCSRFToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		CSRFToken: token,
		Cart:      []CartLine{},
	}, nil
}

// NewSessionStore connects to Redis; when the server is unreachable it
// degrades to the in-memory store so local runs and tests need no Redis.
func NewSessionStore(cfg *config.Config) SessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		utils.InfoLogger.Printf("Redis unreachable (%v), falling back to in-memory sessions", err)
		return NewMemorySessionStore(cfg.SessionTTL)
	}

	return &RedisSessionStore{client: client, ttl: cfg.SessionTTL}
}

// RedisSessionStore keeps sessions as JSON values with a TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func sessionKey(id string) string { return "session:" + id }

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), raw, s.ttl).Err()
}

func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// MemorySessionStore is the fallback used when Redis is absent and in tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration
}

type memorySession struct {
	session Session
	expires time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
	}
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, exists := s.sessions[id]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, nil
	}

	copied := entry.session
	copied.Cart = append([]CartLine(nil), entry.session.Cart...)
	return &copied, nil
}

func (s *MemorySessionStore) Save(ctx context.Context, session *Session) error {
	copied := *session
	copied.Cart = append([]CartLine(nil), session.Cart...)

	s.mu.Lock()
	s.sessions[session.ID] = &memorySession{
		session: copied,
		expires: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *MemorySessionStore) Destroy(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
