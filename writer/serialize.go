package writer

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/mdkit/mdreport/ir/raw"
)

// serializeObject writes one object in body syntax. Dictionary keys are
// emitted sorted so output is deterministic.
func serializeObject(buf *bytes.Buffer, obj raw.Object) error {
	switch o := obj.(type) {
	case raw.NameObj:
		writeName(buf, o.Value())
	case raw.NumberObj:
		if o.IsInteger() {
			buf.WriteString(strconv.FormatInt(o.Int(), 10))
		} else {
			buf.WriteString(formatReal(o.Float()))
		}
	case raw.BoolObj:
		if o.Value() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case raw.NullObj:
		buf.WriteString("null")
	case raw.StringObj:
		writeString(buf, o)
	case raw.RefObj:
		fmt.Fprintf(buf, "%d %d R", o.Ref().Num, o.Ref().Gen)
	case *raw.ArrayObj:
		buf.WriteByte('[')
		for i, item := range o.Items {
			if i > 0 {
				buf.WriteByte(' ')
			}
			if err := serializeObject(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *raw.DictObj:
		if err := serializeDict(buf, o); err != nil {
			return err
		}
	case *raw.StreamObj:
		if err := serializeDict(buf, o.Dict); err != nil {
			return err
		}
		buf.WriteString("\nstream\n")
		buf.Write(o.Data)
		buf.WriteString("\nendstream")
	default:
		return fmt.Errorf("writer: cannot serialize %T", obj)
	}
	return nil
}

func serializeDict(buf *bytes.Buffer, dict *raw.DictObj) error {
	keys := make([]string, 0, len(dict.KV))
	for k := range dict.KV {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteString("<<")
	for _, k := range keys {
		buf.WriteByte(' ')
		writeName(buf, k)
		buf.WriteByte(' ')
		if err := serializeObject(buf, dict.KV[k]); err != nil {
			return err
		}
	}
	buf.WriteString(" >>")
	return nil
}

// writeName escapes bytes outside the regular range with #xx.
func writeName(buf *bytes.Buffer, name string) {
	buf.WriteByte('/')
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c > '~' || c == '#' || isNameDelimiter(c) {
			fmt.Fprintf(buf, "#%02X", c)
			continue
		}
		buf.WriteByte(c)
	}
}

func isNameDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func writeString(buf *bytes.Buffer, s raw.StringObj) {
	if s.Hex {
		buf.WriteByte('<')
		for _, b := range s.Bytes {
			fmt.Fprintf(buf, "%02X", b)
		}
		buf.WriteByte('>')
		return
	}
	buf.WriteByte('(')
	for _, b := range s.Bytes {
		switch b {
		case '(', ')', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(b)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteByte(b)
		}
	}
	buf.WriteByte(')')
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', 5, 64)
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}
