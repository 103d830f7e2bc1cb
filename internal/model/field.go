package model

// Field is an optional value in a partial update. Set distinguishes
// "leave unchanged" from an explicit value.
type Field[T any] struct {
	Value T
	Set   bool
}

// Some returns a Field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// FromPtr returns a set Field when p is non-nil.
func FromPtr[T any](p *T) Field[T] {
	if p == nil {
		return Field[T]{}
	}
	return Some(*p)
}

// Ptr returns a pointer to the value, or nil when the field is unset.
// Used as a COALESCE argument in UPDATE statements.
func (f Field[T]) Ptr() *T {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}
