package redis

import (
	"context"
	"sync"
	"time"

	"exam-session-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - Sessions own live timers and subscriber channels, so the instances
//     themselves stay in a local map; Redis marks attempt liveness (and could
//     be extended to share submitted results across instances).
//   - For true distribution you'd pair this with sticky routing so a
//     candidate's ticks keep landing on the owning instance.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.ExamSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.ExamSession),
	}
}

func (s *SessionStore) GetOrCreate(key string, build func() *app.ExamSession) *app.ExamSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session := build()
	s.sessions[key] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(key), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(key string) (*app.ExamSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key]
	return session, ok
}

func (s *SessionStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[key]; !ok {
		return
	}
	delete(s.sessions, key)
	_ = s.client.Del(context.Background(), s.key(key)).Err()
}

func (s *SessionStore) key(sessionKey string) string {
	return "exam:session:" + sessionKey
}
