package control

import (
	"sort"
	"sync"
)

// Subject delivers values synchronously to its subscribers in
// subscription order.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
	closed bool
}

// NewSubject returns an open Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: map[int]func(T){}}
}

// Subscription cancels one Subscribe call.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn. Subscribing to a completed subject returns an
// inert subscription.
func (s *Subject[T]) Subscribe(fn func(T)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || fn == nil {
		return &Subscription{cancel: func() {}}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

// Next delivers v to every current subscriber. Subscribers may
// unsubscribe or subscribe from inside the callback.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}

// Complete drops all subscribers; later Next calls are ignored.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	s.closed = true
	s.subs = map[int]func(T){}
	s.mu.Unlock()
}

// Observers returns the number of live subscriptions.
func (s *Subject[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
