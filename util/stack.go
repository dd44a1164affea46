package util

// Stack is a LIFO list. The zero value is empty and ready to use.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top item. Popping an empty stack returns the zero value.
func (s *Stack[T]) Pop() T {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero
	}

	top := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return top
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
