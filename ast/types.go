package ast

import "strings"

// ScalarKind enumerates Grace's closed set of scalar kinds (§3).
type ScalarKind int

const (
	Int ScalarKind = iota
	Char
	Nothing
)

// String renders the scalar kind the way Grace source spells it.
func (k ScalarKind) String() string {
	switch k {
	case Int:
		return "int"
	case Char:
		return "char"
	case Nothing:
		return "nothing"
	default:
		return "?"
	}
}

// Dimension is one entry of an array type's ordered dimension list. A
// dimension is either an explicit positive bound or "unspecified" — valid
// only as the leading dimension of an array-typed parameter (§3).
type Dimension struct {
	Bound       int
	Unspecified bool
}

func (d Dimension) String() string {
	if d.Unspecified {
		return "[]"
	}
	return "[" + itoa(d.Bound) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Type is Grace's data type: either a bare scalar kind, or an array of a
// scalar kind with a non-empty ordered dimension list (§3).
type Type struct {
	Scalar  ScalarKind
	IsArray bool
	Dims    []Dimension
}

// ScalarType builds a non-array type of the given kind.
func ScalarType(k ScalarKind) *Type { return &Type{Scalar: k} }

// ArrayType builds an array type with the given element kind and dimensions.
func ArrayType(k ScalarKind, dims []Dimension) *Type {
	return &Type{Scalar: k, IsArray: true, Dims: append([]Dimension(nil), dims...)}
}

// ElementType strips the leading dimension, yielding the type used to
// describe a single slice/element of this array (§4.4's by-reference
// array-with-unspecified-leading-dimension lowering and §4.2's slice rule).
func (t *Type) ElementType() *Type {
	if !t.IsArray {
		return t
	}
	if len(t.Dims) == 1 {
		return ScalarType(t.Scalar)
	}
	return ArrayType(t.Scalar, t.Dims[1:])
}

// EqualScalar reports whether two types have the same scalar element kind.
func (t *Type) EqualScalar(o *Type) bool { return t.Scalar == o.Scalar }

// Equal reports full structural equality: same element kind, same
// array-ness, identical dimension counts and (for explicit dimensions)
// identical bounds.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Scalar != o.Scalar || t.IsArray != o.IsArray {
		return false
	}
	if !t.IsArray {
		return true
	}
	if len(t.Dims) != len(o.Dims) {
		return false
	}
	for i := range t.Dims {
		if t.Dims[i].Unspecified || o.Dims[i].Unspecified {
			continue
		}
		if t.Dims[i].Bound != o.Dims[i].Bound {
			return false
		}
	}
	return true
}

// CompatibleArg reports whether an actual argument of type t may be passed
// to a parameter declared with type o, per §4.2's argument-compatibility
// rule: equal element kind and dimension count, and either every
// corresponding dimension equal or the parameter's leading dimension is
// unspecified (in which case only the trailing dimensions must match).
func (t *Type) CompatibleArg(param *Type) bool {
	if t.Scalar != param.Scalar || t.IsArray != param.IsArray {
		return false
	}
	if !t.IsArray {
		return true
	}
	if len(t.Dims) != len(param.Dims) {
		return false
	}
	start := 0
	if param.Dims[0].Unspecified {
		start = 1
	}
	for i := start; i < len(t.Dims); i++ {
		if t.Dims[i].Bound != param.Dims[i].Bound {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if !t.IsArray {
		return t.Scalar.String()
	}
	var b strings.Builder
	b.WriteString(t.Scalar.String())
	for _, d := range t.Dims {
		b.WriteString(d.String())
	}
	return b.String()
}

// ParamMode is a parameter's passing discipline (§3). Arrays must be
// by-reference (enforced by the semantic analyzer, not this type).
type ParamMode int

const (
	ByValue ParamMode = iota
	ByReference
)

func (m ParamMode) String() string {
	if m == ByReference {
		return "ref"
	}
	return ""
}

// FunctionStatus is a function entity's lifecycle state (§3/§4.1):
// declared (header only, awaiting a matching definition before its
// enclosing scope closes) or defined (body attached).
type FunctionStatus int

const (
	Declared FunctionStatus = iota
	Defined
)

// EntityKind distinguishes what a resolved identifier refers to.
type EntityKind int

const (
	VariableEntity EntityKind = iota
	ParameterEntity
	FunctionEntity
)
