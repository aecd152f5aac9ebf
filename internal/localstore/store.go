package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

type ChangeKind int

const (
	ChangeSet ChangeKind = iota
	ChangeRemove
)

// Change is broadcast after every successful write.
type Change struct {
	Key   string
	Kind  ChangeKind
	Value string
}

const subscriberBuffer = 32

type subscription struct {
	match func(key string) bool
	ch    chan Change
}

// Store wraps a Storage with change notifications. Writes are
// last-write-wins; there is no locking across processes.
type Store struct {
	backend Storage
	now     func() time.Time

	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(backend Storage, opts ...Option) *Store {
	s := &Store{backend: backend, now: time.Now, subs: make(map[int]*subscription)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time { return s.now() }

func (s *Store) Get(key string) (string, bool, error) {
	return s.backend.Get(key)
}

func (s *Store) Set(key, value string) error {
	if err := s.backend.Set(key, value); err != nil {
		return err
	}
	s.publish(Change{Key: key, Kind: ChangeSet, Value: value})
	return nil
}

func (s *Store) Remove(key string) error {
	if err := s.backend.Remove(key); err != nil {
		return err
	}
	s.publish(Change{Key: key, Kind: ChangeRemove})
	return nil
}

// RemovePrefix drops every key under prefix.
func (s *Store) RemovePrefix(prefix string) error {
	keys, err := s.backend.Keys(prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := s.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Keys(prefix string) ([]string, error) {
	return s.backend.Keys(prefix)
}

// GetJSON decodes key into v. A missing key reports false with no error.
func (s *Store) GetJSON(key string, v any) (bool, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}

// Subscribe delivers changes to keys under prefix until cancel is called.
// A subscriber that falls behind loses changes rather than blocking writers.
func (s *Store) Subscribe(prefix string) (<-chan Change, func()) {
	return s.subscribe(func(key string) bool { return strings.HasPrefix(key, prefix) })
}

// SubscribeKeys is Subscribe for an exact set of keys.
func (s *Store) SubscribeKeys(keys ...string) (<-chan Change, func()) {
	return s.subscribe(func(key string) bool { return slices.Contains(keys, key) })
}

func (s *Store) subscribe(match func(string) bool) (<-chan Change, func()) {
	sub := &subscription{match: match, ch: make(chan Change, subscriberBuffer)}

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (s *Store) publish(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if !sub.match(c.Key) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			slog.Warn("store subscriber is full, change dropped", "key", c.Key)
		}
	}
}
