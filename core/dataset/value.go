package dataset

import (
	"math"
	"strconv"
)

// Value is a single feature value or label. Exactly one of Number and Token
// is meaningful, selected by Kind.
type Value struct {
	Kind   Kind    `json:"kind"`
	Number float64 `json:"number,omitempty"`
	Token  string  `json:"token,omitempty"`
}

// Num returns a continuous value.
func Num(v float64) Value {
	return Value{Kind: Continuous, Number: v}
}

// Cat returns a categorical value.
func Cat(token string) Value {
	return Value{Kind: Categorical, Token: token}
}

// Less orders values of the same kind: numerically for continuous values and
// lexicographically for tokens. Continuous values sort before categorical ones.
func (v Value) Less(o Value) bool {
	if v.Kind != o.Kind {
		return v.Kind < o.Kind
	}
	if v.Kind == Continuous {
		return v.Number < o.Number
	}
	return v.Token < o.Token
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == Continuous {
		return v.Number == o.Number
	}
	return v.Token == o.Token
}

// finite is false for NaN and infinite continuous values.
func (v Value) finite() bool {
	return v.Kind != Continuous || !(math.IsNaN(v.Number) || math.IsInf(v.Number, 0))
}

func (v Value) String() string {
	if v.Kind == Categorical {
		return v.Token
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

// Key returns a string usable as a map key that distinguishes kinds.
func (v Value) Key() string {
	if v.Kind == Categorical {
		return "c:" + v.Token
	}
	return "n:" + v.String()
}
