package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
)

type memoryItem struct {
	key       string
	value     *domain.EntryCollection
	expiresAt time.Time
}

// MemoryStore is a size-bounded LRU with per-item expiry.
type MemoryStore struct {
	mu         sync.Mutex
	maxEntries int
	clock      port.Clock
	order      *list.List
	items      map[string]*list.Element
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(maxEntries int, clock port.Clock) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	if clock == nil {
		clock = port.SystemClock{}
	}
	return &MemoryStore{
		maxEntries: maxEntries,
		clock:      clock,
		order:      list.New(),
		items:      make(map[string]*list.Element, maxEntries),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*domain.EntryCollection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	item := el.Value.(*memoryItem)
	if !s.clock.Now().Before(item.expiresAt) {
		s.remove(el)
		return nil, false, nil
	}
	s.order.MoveToFront(el)
	return item.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value *domain.EntryCollection, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.clock.Now().Add(ttl)
	if el, ok := s.items[key]; ok {
		item := el.Value.(*memoryItem)
		item.value = value
		item.expiresAt = expiresAt
		s.order.MoveToFront(el)
		return nil
	}

	s.items[key] = s.order.PushFront(&memoryItem{key: key, value: value, expiresAt: expiresAt})
	for s.order.Len() > s.maxEntries {
		s.remove(s.order.Back())
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *MemoryStore) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*memoryItem).key)
}
