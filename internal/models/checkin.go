package models

import (
	"encoding/json"
	"fmt"
)

// CheckinValue is a tagged variant for habit check-in values, which are
// either a boolean "did / did not" or a non-negative count (e.g. number
// of drinks). On the wire it is a bare JSON bool or number; Go's
// standard unmarshaling cannot carry that distinction through a single
// field, so this type does its own (un)marshaling and defines the
// truthiness rule once for both the snapshot and the correlation engine.
type CheckinValue struct {
	Kind  CheckinValueKind
	Bool  bool
	Count int
}

// CheckinValueKind discriminates the variant held by a CheckinValue.
type CheckinValueKind int

const (
	// ValueBool is a yes/no check-in. The zero CheckinValue is a
	// boolean false, which matches "no check-in recorded" semantics.
	ValueBool CheckinValueKind = iota
	// ValueCount is a numeric check-in such as drinks consumed.
	ValueCount
)

// BoolValue returns a boolean check-in value.
func BoolValue(v bool) CheckinValue {
	return CheckinValue{Kind: ValueBool, Bool: v}
}

// CountValue returns a count check-in value.
func CountValue(n int) CheckinValue {
	return CheckinValue{Kind: ValueCount, Count: n}
}

// Performed reports whether the habit was performed: boolean true, or a
// count greater than zero. A zero (or negative) count is equivalent to
// false everywhere the value is consumed.
func (v CheckinValue) Performed() bool {
	if v.Kind == ValueCount {
		return v.Count > 0
	}
	return v.Bool
}

// UnmarshalJSON accepts a JSON bool or number.
func (v *CheckinValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		v.Kind = ValueBool
		v.Bool = b
		v.Count = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		v.Kind = ValueCount
		v.Count = n
		v.Bool = false
		return nil
	}

	return fmt.Errorf("check-in value must be a boolean or an integer, got %s", string(data))
}

// MarshalJSON emits the variant as a bare bool or number.
func (v CheckinValue) MarshalJSON() ([]byte, error) {
	if v.Kind == ValueCount {
		return json.Marshal(v.Count)
	}
	return json.Marshal(v.Bool)
}
