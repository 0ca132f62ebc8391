// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Outcome is the result of a stage that degrades instead of failing. A
// degraded outcome still carries a well-formed default Value.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Reason   string
}

// Ok wraps a normal result.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degrade wraps a default value and the reason the stage fell back to it.
func Degrade[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Reason: reason}
}
