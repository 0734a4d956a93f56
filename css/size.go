package css

import (
	"math"
	"strconv"
)

// Size is a numeric literal with an optional unit, e.g. 12px, -0.5em, 100%
// or a bare 3.
type Size struct {
	size  float64
	unit  Unit
	color bool
	line  int
}

// NewSize creates size directly, for example when synthesizing CSS. Unit is
// stored as given.
func NewSize(size float64, unit Unit, isColorComponent bool, line int) *Size {
	return &Size{size: size, unit: unit, color: isColorComponent, line: line}
}

// Size returns the magnitude.
func (s *Size) Size() float64 {
	return s.size
}

func (s *Size) SetSize(size float64) {
	s.size = size
}

// Unit returns the unit or UnitNone for unitless values.
func (s *Size) Unit() Unit {
	return s.unit
}

func (s *Size) SetUnit(unit Unit) {
	s.unit = unit
}

// IsColorComponent reports whether the number is a channel or alpha
// component of a color rather than a size.
func (s *Size) IsColorComponent() bool {
	return s.color
}

// Line returns the source line the size was parsed from, 0 if unknown.
func (s *Size) Line() int {
	return s.line
}

// IsSize returns whether the number really represents a size (length of
// something on screen). It is false for angles, durations, frequencies and
// color components.
func (s *Size) IsSize() bool {
	if s.unit.IsNonSize() {
		return false
	}
	return !s.color
}

// IsRelative reports whether the size depends on context. Unitless non-zero
// numbers count as relative, unitless zero never does.
func (s *Size) IsRelative() bool {
	if s.unit.IsRelative() {
		return true
	}
	return s.unit == UnitNone && s.size != 0
}

// Render returns the canonical text of the size.
func (s *Size) Render() string {
	return string(s.AppendSize(nil))
}

func (s *Size) String() string {
	return s.Render()
}

// AppendSize appends the canonical text of the size to dst. Numbers are
// always fixed point with '.' as separator, shortest form that reads back
// to the same value, and "0." collapsed to ".".
func (s *Size) AppendSize(dst []byte) []byte {
	dst = appendNumber(dst, s.size)
	return append(dst, s.unit...)
}

func appendNumber(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "nan"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	case f == 0:
		// covers negative zero
		return append(dst, '0')
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'f', -1, 64)
	num := dst[start:]
	switch {
	case len(num) > 1 && num[0] == '0' && num[1] == '.':
		dst = append(dst[:start], num[1:]...)
	case len(num) > 2 && num[0] == '-' && num[1] == '0' && num[2] == '.':
		dst = append(dst[:start+1], num[2:]...)
	}
	return dst
}
