package repository

// Result is the outcome of a lookup that may legitimately find nothing.
// Failures travel separately as errors.
type Result[T any] struct {
	value T
	found bool
}

func Found[T any](value T) Result[T] {
	return Result[T]{value: value, found: true}
}

func NotFound[T any]() Result[T] {
	return Result[T]{}
}

func (r Result[T]) IsFound() bool { return r.found }

// Get returns the value and whether it was found.
func (r Result[T]) Get() (T, bool) { return r.value, r.found }

// OrErr returns the value, or ErrNotFound when nothing was found.
func (r Result[T]) OrErr() (T, error) {
	if !r.found {
		return r.value, ErrNotFound
	}
	return r.value, nil
}
