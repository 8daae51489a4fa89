// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"encoding/json"
	"fmt"
)

type (
	// VarFloat64 is a type alias for Variable[float64], representing a float64 value with initialization tracking.
	VarFloat64 = Variable[float64]

	// VarInt is a type alias for Variable[int], representing an integer value with initialization tracking.
	VarInt = Variable[int]

	// VarBool is a type alias for Variable[bool], representing a boolean value with initialization tracking.
	VarBool = Variable[bool]

	// VarString is a type alias for Variable[string], representing a string value with initialization tracking.
	VarString = Variable[string]
)

// Number is the set of numeric types that can be summed up null-safely.
type Number interface {
	~int | ~int64 | ~float64
}

// Variable represents a generic type wrapper that holds a value and tracks its initialization state.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable creates and returns a new Variable instance initialized with the provided value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// FromPointer returns an initialized Variable if ptr is not nil, otherwise an unset Variable.
func FromPointer[T any](ptr *T) Variable[T] {
	if ptr == nil {
		return Variable[T]{}
	}
	return NewVariable(*ptr)
}

// Reset clears the value of the Variable and marks it as uninitialized.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value retrieves the current value stored in the Variable.
func (v Variable[T]) Value() T {
	return v.value
}

// ValueOr returns the stored value or fallback if the Variable is not initialized.
func (v Variable[T]) ValueOr(fallback T) T {
	if !v.isset {
		return fallback
	}
	return v.value
}

// Set assigns the provided value to the Variable and marks it as initialized.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

// IsSet returns true if the Variable has been initialized with a value, otherwise false.
func (v Variable[T]) IsSet() bool {
	return v.isset
}

// String returns a string representation of the Variable. If uninitialized, it returns a default placeholder message.
func (v Variable[T]) String() string {
	if !v.isset {
		return "Unsupported by weather provider"
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON renders an uninitialized Variable as JSON null.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON treats JSON null as an uninitialized Variable.
func (v *Variable[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Reset()
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return err
	}
	v.Set(val)
	return nil
}

// Convert maps an initialized Variable through fn. Unset stays unset.
func Convert[T, U any](v Variable[T], fn func(T) U) Variable[U] {
	if !v.isset {
		return Variable[U]{}
	}
	return NewVariable(fn(v.value))
}

// Sum adds up all initialized Variables. The result is only unset if none of the
// given Variables is initialized.
func Sum[T Number](vars ...Variable[T]) Variable[T] {
	var result Variable[T]
	for _, v := range vars {
		if !v.isset {
			continue
		}
		result.Set(result.value + v.value)
	}
	return result
}

// Max returns the largest initialized Variable, or an unset Variable if none is initialized.
func Max[T Number](vars ...Variable[T]) Variable[T] {
	var result Variable[T]
	for _, v := range vars {
		if !v.isset {
			continue
		}
		if !result.isset || v.value > result.value {
			result.Set(v.value)
		}
	}
	return result
}
