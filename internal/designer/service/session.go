package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"stallmap/internal/designer/panel"
	"stallmap/internal/designer/state"
	"stallmap/pkg/model"
)

// session is one operator editing one hall. mu guards every field; it is
// never held across a call to the layout store.
type session struct {
	mu sync.Mutex

	id           string
	state        state.State
	panel        panel.Panel
	others       []model.MapStall
	stale        bool
	saving       bool
	closed       bool
	openedAt     time.Time
	lastAccessed time.Time
	lastSavedAt  time.Time
}

func (s *session) touch(now time.Time) {
	s.lastAccessed = now
}

// sessionStore indexes live sessions and expires idle ones.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
	onExpire func(s *session)
}

func newSessionStore(ttl time.Duration, onExpire func(s *session)) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		onExpire: onExpire,
	}
}

func (st *sessionStore) create(s state.State, others []model.MapStall) *session {
	now := st.now()
	sess := &session{
		id:           uuid.New().String(),
		state:        s,
		others:       others,
		openedAt:     now,
		lastAccessed: now,
	}

	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

// get returns the session and marks it accessed. An expired session is
// removed and reported missing.
func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := st.now()
	sess.mu.Lock()
	expired := sess.closed || now.Sub(sess.lastAccessed) > st.ttl
	if !expired {
		sess.touch(now)
	}
	sess.mu.Unlock()

	if expired {
		st.expire(id, sess)
		return nil, false
	}
	return sess, true
}

func (st *sessionStore) remove(id string) (*session, bool) {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return nil, false
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
	return sess, true
}

func (st *sessionStore) expire(id string, sess *session) {
	if _, ok := st.remove(id); ok && st.onExpire != nil {
		st.onExpire(sess)
	}
}

// forEvent lists the open sessions editing any hall of eventID.
func (st *sessionStore) forEvent(eventID int64) []*session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []*session
	for _, sess := range st.sessions {
		sess.mu.Lock()
		match := sess.state.Hall.EventID == eventID
		sess.mu.Unlock()
		if match {
			out = append(out, sess)
		}
	}
	return out
}

func (st *sessionStore) len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *sessionStore) sweep() {
	now := st.now()

	st.mu.RLock()
	var expired []*session
	for _, sess := range st.sessions {
		sess.mu.Lock()
		if !sess.saving && now.Sub(sess.lastAccessed) > st.ttl {
			expired = append(expired, sess)
		}
		sess.mu.Unlock()
	}
	st.mu.RUnlock()

	for _, sess := range expired {
		st.expire(sess.id, sess)
	}
}

func (st *sessionStore) cleanup() {
	ticker := time.NewTicker(min(st.ttl, time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.sweep()
		case <-st.stopCh:
			return
		}
	}
}

func (st *sessionStore) stop() {
	st.stopOnce.Do(func() {
		close(st.stopCh)
	})
}
