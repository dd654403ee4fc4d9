// Package contentstream builds page content as sequences of operations and
// encodes them to the textual operator syntax.
package contentstream

import (
	"bytes"
	"strconv"
)

// Operand is a value appearing before an operator.
type Operand interface {
	encodeTo(buf *bytes.Buffer)
}

// Number is a numeric operand. Integral values are written without a
// fractional part; reals are trimmed of trailing zeros.
type Number float64

func (n Number) encodeTo(buf *bytes.Buffer) {
	buf.WriteString(FormatNumber(float64(n)))
}

// Name is a name operand, written with a leading slash.
type Name string

func (n Name) encodeTo(buf *bytes.Buffer) {
	buf.WriteByte('/')
	buf.WriteString(string(n))
}

// String is a literal string operand, written in parentheses with
// backslash escapes for parens and backslash.
type String string

func (s String) encodeTo(buf *bytes.Buffer) {
	buf.WriteByte('(')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', ')', '\\':
			buf.WriteByte('\\')
		}
		buf.WriteByte(c)
	}
	buf.WriteByte(')')
}

// Operation is one operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Op constructs an Operation.
func Op(operator string, operands ...Operand) Operation {
	return Operation{Operator: operator, Operands: operands}
}

// Encode renders operations one per line.
func Encode(ops []Operation) []byte {
	var buf bytes.Buffer
	for _, op := range ops {
		for _, arg := range op.Operands {
			arg.encodeTo(&buf)
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// FormatNumber formats a coordinate or scalar the way content streams
// expect: no exponent, no trailing fractional zeros.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = trimTrailingZeros(s)
	return s
}

func trimTrailingZeros(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
