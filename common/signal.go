package common

// SubscriptionID identifies one registration on a Signal.
type SubscriptionID uint64

// Signal is an observer list. Emit iterates over a snapshot, so handlers may
// subscribe or unsubscribe (themselves or others) while being notified; a
// handler removed during an Emit is not called later in that Emit.
type Signal[T any] struct {
	next     SubscriptionID
	handlers map[SubscriptionID]func(T)
	order    []SubscriptionID
}

// Subscribe registers fn and returns its id.
func (s *Signal[T]) Subscribe(fn func(T)) SubscriptionID {
	if s == nil || fn == nil {
		return 0
	}
	if s.handlers == nil {
		s.handlers = make(map[SubscriptionID]func(T))
	}
	s.next++
	s.handlers[s.next] = fn
	s.order = append(s.order, s.next)
	return s.next
}

// Unsubscribe removes a registration. Unknown ids are ignored.
func (s *Signal[T]) Unsubscribe(id SubscriptionID) bool {
	if s == nil {
		return false
	}
	if _, ok := s.handlers[id]; !ok {
		return false
	}
	delete(s.handlers, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Emit notifies every handler in subscription order.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.order) == 0 {
		return
	}
	ids := append([]SubscriptionID(nil), s.order...)
	for _, id := range ids {
		if fn, ok := s.handlers[id]; ok {
			fn(v)
		}
	}
}

// Len returns the number of live subscriptions.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.handlers)
}
