package memory

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Ashwinrajen/Team-6-AAS-EcoNav-SG/internal/requirements"
)

// Store is the tiered session store: an in-process cache as the fast path and
// an optional durable backing store as the slow path. Once a session is
// cached, the cache copy is authoritative for the rest of the process
// lifetime; the durable tier is eventually consistent, written through on
// every Put.
type Store struct {
	mu    sync.RWMutex
	cache map[string]Record
	locks map[string]*sync.Mutex

	durable        DurableStore
	maxHistory     int
	ttl            time.Duration
	onExpire       func(sessionID string)
	onDurableError func(op string)
}

const (
	defaultMaxHistory = 10
	defaultTTL        = 24 * time.Hour
)

// NewStore builds the tiered store. durable may be nil, in which case the
// store is purely in-process.
func NewStore(durable DurableStore, maxHistory int, ttl time.Duration) *Store {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		cache:      make(map[string]Record),
		locks:      make(map[string]*sync.Mutex),
		durable:    durable,
		maxHistory: maxHistory,
		ttl:        ttl,
	}
}

// SetExpireHook registers a callback invoked for every session the TTL sweep
// purges.
func (s *Store) SetExpireHook(hook func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// SetDurableErrorHook registers a callback invoked with the failed operation
// name ("load", "save", "delete") whenever a best-effort durable call errors.
func (s *Store) SetDurableErrorHook(hook func(op string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDurableError = hook
}

func (s *Store) countDurableError(op string) {
	s.mu.RLock()
	hook := s.onDurableError
	s.mu.RUnlock()
	if hook != nil {
		hook(op)
	}
}

// LockSession serializes turns for one session id. Callers hold the returned
// unlock for the whole turn so a slow extraction cannot be overwritten by a
// stale concurrent read.
func (s *Store) LockSession(sessionID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get returns the session record, synthesizing a default one when the session
// is unknown. It never fails: durable-read errors degrade to the default
// template, which is not persisted until the next Put.
func (s *Store) Get(ctx context.Context, sessionID string, template requirements.Document) Record {
	s.mu.RLock()
	rec, ok := s.cache[sessionID]
	s.mu.RUnlock()
	if ok {
		return cloneRecord(rec)
	}

	if s.durable != nil {
		rec, err := s.durable.Load(ctx, sessionID)
		if err == nil {
			s.mu.Lock()
			s.cache[sessionID] = rec
			s.mu.Unlock()
			return cloneRecord(rec)
		}
		if !errors.Is(err, ErrNotFound) && ctx.Err() == nil {
			log.Printf("durable session read failed for %s: %v", sessionID, err)
			s.countDurableError("load")
		}
	}

	return Record{
		SessionID:    sessionID,
		Requirements: template,
		Phase:        requirements.PhaseInitial,
		LastUpdated:  time.Now().UTC(),
	}
}

// Put stores the record in the cache and writes through to the durable tier
// best effort. History is truncated to the configured cap, oldest first.
// The stored record is returned.
func (s *Store) Put(ctx context.Context, record Record) Record {
	if n := len(record.ConversationHistory); n > s.maxHistory {
		record.ConversationHistory = record.ConversationHistory[n-s.maxHistory:]
	}
	record.LastUpdated = time.Now().UTC()

	s.mu.Lock()
	s.cache[record.SessionID] = cloneRecord(record)
	s.mu.Unlock()

	if s.durable != nil {
		if err := s.durable.Save(ctx, record); err != nil {
			// Cache copy stays authoritative; losing a durable write only
			// costs cross-restart continuity for this session.
			log.Printf("durable session write failed for %s: %v", record.SessionID, err)
			s.countDurableError("save")
		}
	}
	return record
}

// Delete removes the session from the cache and, best effort, from the
// durable tier.
func (s *Store) Delete(ctx context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.cache, sessionID)
	delete(s.locks, sessionID)
	s.mu.Unlock()

	if s.durable != nil {
		if err := s.durable.Delete(ctx, sessionID); err != nil {
			log.Printf("durable session delete failed for %s: %v", sessionID, err)
			s.countDurableError("delete")
		}
	}
}

// CachedCount returns the number of sessions in the fast tier.
func (s *Store) CachedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

// StartJanitor launches the periodic TTL sweep purging sessions idle for
// longer than the configured TTL.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepExpired(ctx)
			}
		}
	}()
}

func (s *Store) sweepExpired(ctx context.Context) {
	now := time.Now().UTC()
	var expired []string

	s.mu.Lock()
	for id, rec := range s.cache {
		if now.Sub(rec.LastUpdated) < s.ttl {
			continue
		}
		delete(s.cache, id)
		delete(s.locks, id)
		expired = append(expired, id)
	}
	hook := s.onExpire
	s.mu.Unlock()

	for _, id := range expired {
		if s.durable != nil {
			if err := s.durable.Delete(ctx, id); err != nil {
				log.Printf("durable session expiry delete failed for %s: %v", id, err)
				s.countDurableError("delete")
			}
		}
		if hook != nil {
			hook(id)
		}
	}
}

func cloneRecord(rec Record) Record {
	out := rec
	if rec.ConversationHistory != nil {
		out.ConversationHistory = make([]Turn, len(rec.ConversationHistory))
		copy(out.ConversationHistory, rec.ConversationHistory)
	}
	return out
}
