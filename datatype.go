package chart

import "fmt"

// DataType is the element type of a chart's GPU data buffer. The values
// match the classic GL enum codes so that type codes carried over from GL
// code keep their meaning.
type DataType uint32

// Supported element types.
const (
	Uint8   DataType = 0x1401
	Int32   DataType = 0x1404
	Uint32  DataType = 0x1405
	Float32 DataType = 0x1406
)

// Valid reports whether t is one of the supported element types.
func (t DataType) Valid() bool {
	switch t {
	case Uint8, Int32, Uint32, Float32:
		return true
	}
	return false
}

// Size returns the size of one element in bytes, or 0 for an unsupported type.
func (t DataType) Size() uint64 {
	switch t {
	case Uint8:
		return 1
	case Int32, Uint32, Float32:
		return 4
	}
	return 0
}

// String returns the Go name of the element type.
func (t DataType) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("DataType(0x%04x)", uint32(t))
	}
}

// ParseDataType maps a Go type name ("float32", "int32", "uint32", "uint8")
// to its DataType. "float", "int", "uint" and "byte" are accepted aliases.
func ParseDataType(s string) (DataType, error) {
	switch s {
	case "float32", "float":
		return Float32, nil
	case "int32", "int":
		return Int32, nil
	case "uint32", "uint":
		return Uint32, nil
	case "uint8", "byte":
		return Uint8, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, s)
}

// Frequency is the set of Go element types a histogram can be fed with.
type Frequency interface {
	float32 | int32 | uint32 | uint8
}

// dataTypeOf returns the DataType matching the Go element type T.
func dataTypeOf[T Frequency]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	case uint32:
		return Uint32
	default:
		return Uint8
	}
}
