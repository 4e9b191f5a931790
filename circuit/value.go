package circuit

import "strconv"

// Value is a numeric operation parameter that is either a concrete
// float or a symbolic expression left to be resolved by the caller.
// Symbolic values cannot be submitted to the backend; the translator
// rejects them.
type Value struct {
	num      float64
	sym      string
	symbolic bool
}

// Float returns a concrete Value.
func Float(f float64) Value {
	return Value{num: f}
}

// Symbol returns a symbolic Value.
func Symbol(s string) Value {
	return Value{sym: s, symbolic: true}
}

// Num returns the concrete float behind the Value. The second return
// value is false when the Value is symbolic.
func (v Value) Num() (float64, bool) {
	if v.symbolic {
		return 0, false
	}
	return v.num, true
}

// IsSymbolic reports whether the Value is a symbolic expression.
func (v Value) IsSymbolic() bool {
	return v.symbolic
}

func (v Value) String() string {
	if v.symbolic {
		return v.sym
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}
