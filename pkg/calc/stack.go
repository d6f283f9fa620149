package calc

// Stack is the shared operand stack: an ordered sequence of integers whose
// top is the most recently pushed element. A Stack is not safe for concurrent
// use on its own; the Calculator serializes access to it.
type Stack struct {
	values []int64
}

// PushAll appends values in the given order, so the last element of the input
// becomes the new top. It always succeeds and returns the new size.
func (s *Stack) PushAll(values []int64) int {
	s.values = append(s.values, values...)
	return len(s.values)
}

// PopN removes n elements from the top and returns the new size. Counts of
// zero or less remove nothing. PopN fails without mutating the stack when n
// exceeds the current size, reporting the requested quantity against the
// actual size.
func (s *Stack) PopN(n int) (int, error) {
	if n > len(s.values) {
		return 0, failf(ErrInsufficientStack,
			"Error: cannot remove %d from the stack. It has only %d arguments", n, len(s.values))
	}
	if n > 0 {
		s.values = s.values[:len(s.values)-n]
	}
	return len(s.values), nil
}

// PeekTop returns up to k elements counting from the top downward, without
// mutation: index 0 of the result is the current top. The result is a copy,
// detached from later stack mutations.
func (s *Stack) PeekTop(k int) []int64 {
	if k > len(s.values) {
		k = len(s.values)
	}
	if k < 0 {
		k = 0
	}
	out := make([]int64, k)
	for i := range out {
		out[i] = s.values[len(s.values)-1-i]
	}
	return out
}

// Size returns the number of stacked operands.
func (s *Stack) Size() int {
	return len(s.values)
}
