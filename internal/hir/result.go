package hir

import (
	"candy/internal/diag"
)

// Result carries either a value or a non-empty list of diagnostics. Rules
// never panic on user errors; they return failed results and siblings keep
// lowering so a body reports every problem it has.
type Result[T any] struct {
	value T
	errs  []diag.Diagnostic
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps one or more diagnostics.
func Fail[T any](errs ...diag.Diagnostic) Result[T] {
	return Result[T]{errs: errs}
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool {
	return len(r.errs) == 0
}

// Value returns the carried value; meaningful only when IsOK.
func (r Result[T]) Value() T {
	return r.value
}

// Errors returns the carried diagnostics.
func (r Result[T]) Errors() []diag.Diagnostic {
	return r.errs
}

// Merge folds per-element results into one: all values on success, the
// concatenation of every error list otherwise. It never stops at the first
// error.
func Merge[T any](results []Result[T]) Result[[]T] {
	var errs []diag.Diagnostic
	values := make([]T, 0, len(results))
	for _, r := range results {
		if !r.IsOK() {
			errs = append(errs, r.errs...)
			continue
		}
		values = append(values, r.value)
	}
	if len(errs) > 0 {
		return Fail[[]T](errs...)
	}
	return Ok(values)
}

// MergeFlat is Merge for element results that are themselves lists; the
// successes are flattened.
func MergeFlat[T any](results []Result[[]T]) Result[[]T] {
	var errs []diag.Diagnostic
	var values []T
	for _, r := range results {
		if !r.IsOK() {
			errs = append(errs, r.errs...)
			continue
		}
		values = append(values, r.value...)
	}
	if len(errs) > 0 {
		return Fail[[]T](errs...)
	}
	return Ok(values)
}
