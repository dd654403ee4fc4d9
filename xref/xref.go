// Package xref locates and parses the cross-reference table and trailer.
package xref

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/mdkit/mdreport/ir/raw"
	"github.com/mdkit/mdreport/scanner"
)

var (
	ErrNoStartXref = errors.New("xref: startxref not found")
	ErrMalformed   = errors.New("xref: malformed table")
)

// Entry is one cross-reference slot.
type Entry struct {
	Offset int64
	Gen    int
	InUse  bool
}

// Table maps object numbers to entries and carries the trailer.
type Table struct {
	Entries map[int]Entry
	Trailer *raw.DictObj
}

// FindStartXref scans the file tail for the startxref offset.
func FindStartXref(data []byte) (int64, error) {
	window := data
	if len(window) > 2048 {
		window = window[len(window)-2048:]
	}
	i := bytes.LastIndex(window, []byte("startxref"))
	if i < 0 {
		return 0, ErrNoStartXref
	}
	rest := window[i+len("startxref"):]
	fields := bytes.Fields(rest)
	if len(fields) == 0 {
		return 0, ErrNoStartXref
	}
	off, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("xref: bad startxref offset: %w", err)
	}
	return off, nil
}

// Parse reads the xref table at offset, following Prev chains. Entries
// from newer sections win over older ones.
func Parse(data []byte, offset int64) (*Table, error) {
	table := &Table{Entries: make(map[int]Entry)}
	seen := make(map[int64]bool)
	for {
		if seen[offset] {
			return nil, errors.New("xref: circular Prev chain")
		}
		seen[offset] = true

		trailer, err := parseSection(data, offset, table)
		if err != nil {
			return nil, err
		}
		if table.Trailer == nil {
			table.Trailer = trailer
		}
		prev, ok := trailer.Get("Prev")
		if !ok {
			return table, nil
		}
		num, ok := prev.(raw.NumberObj)
		if !ok {
			return nil, ErrMalformed
		}
		offset = num.Int()
	}
}

// parseSection reads one "xref ... trailer << >>" section. Entries
// already present in table are kept, since chains are walked newest
// first.
func parseSection(data []byte, offset int64, table *Table) (*raw.DictObj, error) {
	sc := scanner.New(data)
	if err := sc.Seek(offset); err != nil {
		return nil, fmt.Errorf("xref: %w", err)
	}
	tok, err := sc.Next()
	if err != nil {
		return nil, fmt.Errorf("xref: %w", err)
	}
	if tok.Type != scanner.TokenKeyword || tok.Text != "xref" {
		return nil, ErrMalformed
	}
	for {
		tok, err = sc.Next()
		if err != nil {
			return nil, fmt.Errorf("xref: %w", err)
		}
		if tok.Type == scanner.TokenKeyword && tok.Text == "trailer" {
			break
		}
		if tok.Type != scanner.TokenNumber || !tok.IsInt {
			return nil, ErrMalformed
		}
		first := int(tok.Num)
		tok, err = sc.Next()
		if err != nil || tok.Type != scanner.TokenNumber {
			return nil, ErrMalformed
		}
		count := int(tok.Num)
		for i := 0; i < count; i++ {
			offTok, err := sc.Next()
			if err != nil || offTok.Type != scanner.TokenNumber {
				return nil, ErrMalformed
			}
			genTok, err := sc.Next()
			if err != nil || genTok.Type != scanner.TokenNumber {
				return nil, ErrMalformed
			}
			kindTok, err := sc.Next()
			if err != nil || kindTok.Type != scanner.TokenKeyword {
				return nil, ErrMalformed
			}
			num := first + i
			if _, exists := table.Entries[num]; exists {
				continue
			}
			table.Entries[num] = Entry{
				Offset: int64(offTok.Num),
				Gen:    int(genTok.Num),
				InUse:  kindTok.Text == "n",
			}
		}
	}
	return parseTrailerDict(sc)
}

func parseTrailerDict(sc *scanner.Scanner) (*raw.DictObj, error) {
	tok, err := sc.Next()
	if err != nil || tok.Type != scanner.TokenDictOpen {
		return nil, ErrMalformed
	}
	dict := raw.Dict()
	for {
		tok, err = sc.Next()
		if err != nil {
			return nil, ErrMalformed
		}
		if tok.Type == scanner.TokenDictClose {
			return dict, nil
		}
		if tok.Type != scanner.TokenName {
			return nil, ErrMalformed
		}
		key := tok.Text
		val, err := parseValue(sc)
		if err != nil {
			return nil, err
		}
		dict.Set(key, val)
	}
}

// parseValue reads a single object value in trailer position. Indirect
// references are recognized by number-number-R lookahead.
func parseValue(sc *scanner.Scanner) (raw.Object, error) {
	tok, err := sc.Next()
	if err != nil {
		return nil, ErrMalformed
	}
	switch tok.Type {
	case scanner.TokenName:
		return raw.NameLiteral(tok.Text), nil
	case scanner.TokenString:
		return raw.Str(tok.Bytes), nil
	case scanner.TokenNumber:
		if tok.IsInt {
			save := sc.Position()
			genTok, err1 := sc.Next()
			if err1 == nil && genTok.Type == scanner.TokenNumber && genTok.IsInt {
				rTok, err2 := sc.Next()
				if err2 == nil && rTok.Type == scanner.TokenKeyword && rTok.Text == "R" {
					return raw.Ref(int(tok.Num), int(genTok.Num)), nil
				}
			}
			if err := sc.Seek(save); err != nil {
				return nil, err
			}
			return raw.NumberInt(int64(tok.Num)), nil
		}
		return raw.NumberFloat(tok.Num), nil
	case scanner.TokenKeyword:
		switch tok.Text {
		case "true":
			return raw.Bool(true), nil
		case "false":
			return raw.Bool(false), nil
		case "null":
			return raw.NullObj{}, nil
		}
		return nil, ErrMalformed
	case scanner.TokenArrayOpen:
		arr := raw.NewArray()
		for {
			save := sc.Position()
			t, err := sc.Next()
			if err != nil {
				return nil, ErrMalformed
			}
			if t.Type == scanner.TokenArrayClose {
				return arr, nil
			}
			if err := sc.Seek(save); err != nil {
				return nil, err
			}
			item, err := parseValue(sc)
			if err != nil {
				return nil, err
			}
			arr.Append(item)
		}
	case scanner.TokenDictOpen:
		dict := raw.Dict()
		for {
			t, err := sc.Next()
			if err != nil {
				return nil, ErrMalformed
			}
			if t.Type == scanner.TokenDictClose {
				return dict, nil
			}
			if t.Type != scanner.TokenName {
				return nil, ErrMalformed
			}
			val, err := parseValue(sc)
			if err != nil {
				return nil, err
			}
			dict.Set(t.Text, val)
		}
	}
	return nil, ErrMalformed
}
