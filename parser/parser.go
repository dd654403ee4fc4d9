// Package parser loads a document through its cross-reference table and
// exposes lazy object access.
package parser

import (
	"errors"
	"fmt"

	"github.com/mdkit/mdreport/filters"
	"github.com/mdkit/mdreport/ir/raw"
	"github.com/mdkit/mdreport/scanner"
	"github.com/mdkit/mdreport/xref"
)

var (
	ErrNotPDF         = errors.New("parser: missing %PDF header")
	ErrObjectNotFound = errors.New("parser: object not found")
)

// maxResolveDepth bounds reference chains so cyclic documents terminate.
const maxResolveDepth = 32

// Document provides object access over a fully buffered file.
type Document struct {
	data  []byte
	table *xref.Table
	cache map[raw.ObjectRef]raw.Object
}

// Load reads the trailer and cross-reference table. Objects parse on
// first access.
func Load(data []byte) (*Document, error) {
	if len(data) < 8 || string(data[:5]) != "%PDF-" {
		return nil, ErrNotPDF
	}
	start, err := xref.FindStartXref(data)
	if err != nil {
		return nil, err
	}
	table, err := xref.Parse(data, start)
	if err != nil {
		return nil, err
	}
	return &Document{data: data, table: table, cache: make(map[raw.ObjectRef]raw.Object)}, nil
}

// Trailer returns the trailer dictionary.
func (d *Document) Trailer() *raw.DictObj { return d.table.Trailer }

// Catalog resolves the trailer Root entry.
func (d *Document) Catalog() (*raw.DictObj, error) {
	root, ok := d.table.Trailer.Get("Root")
	if !ok {
		return nil, errors.New("parser: trailer has no Root")
	}
	obj, err := d.Resolve(root)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(*raw.DictObj)
	if !ok {
		return nil, errors.New("parser: Root is not a dictionary")
	}
	return dict, nil
}

// Get parses the object at ref's recorded offset.
func (d *Document) Get(ref raw.ObjectRef) (raw.Object, error) {
	if obj, ok := d.cache[ref]; ok {
		return obj, nil
	}
	entry, ok := d.table.Entries[ref.Num]
	if !ok || !entry.InUse {
		return nil, fmt.Errorf("%w: %d %d", ErrObjectNotFound, ref.Num, ref.Gen)
	}
	sc := scanner.New(d.data)
	if err := sc.Seek(entry.Offset); err != nil {
		return nil, err
	}
	obj, err := d.parseIndirect(sc, ref)
	if err != nil {
		return nil, err
	}
	d.cache[ref] = obj
	return obj, nil
}

// Resolve follows indirect references until a direct object remains.
func (d *Document) Resolve(obj raw.Object) (raw.Object, error) {
	for depth := 0; depth < maxResolveDepth; depth++ {
		ref, ok := obj.(raw.RefObj)
		if !ok {
			return obj, nil
		}
		next, err := d.Get(ref.Ref())
		if err != nil {
			return nil, err
		}
		obj = next
	}
	return nil, errors.New("parser: reference chain too deep")
}

// ResolvedDictEntry resolves dict[key] and returns nil if absent.
func (d *Document) ResolvedDictEntry(dict *raw.DictObj, key string) (raw.Object, error) {
	val, ok := dict.Get(key)
	if !ok {
		return nil, nil
	}
	return d.Resolve(val)
}

// StreamData returns a stream's payload with its filter chain applied.
func (d *Document) StreamData(s *raw.StreamObj) ([]byte, error) {
	names, err := d.filterNames(s.Dict)
	if err != nil {
		return nil, err
	}
	return filters.DecodeChain(s.Data, names)
}

func (d *Document) filterNames(dict *raw.DictObj) ([]string, error) {
	val, err := d.ResolvedDictEntry(dict, "Filter")
	if err != nil || val == nil {
		return nil, err
	}
	switch f := val.(type) {
	case raw.NameObj:
		return []string{f.Value()}, nil
	case *raw.ArrayObj:
		var names []string
		for _, item := range f.Items {
			r, err := d.Resolve(item)
			if err != nil {
				return nil, err
			}
			name, ok := r.(raw.NameObj)
			if !ok {
				return nil, errors.New("parser: non-name in Filter array")
			}
			names = append(names, name.Value())
		}
		return names, nil
	}
	return nil, errors.New("parser: Filter is neither name nor array")
}

// parseIndirect reads "N G obj ... endobj" at the scanner position.
func (d *Document) parseIndirect(sc *scanner.Scanner, ref raw.ObjectRef) (raw.Object, error) {
	numTok, err := sc.Next()
	if err != nil || numTok.Type != scanner.TokenNumber || int(numTok.Num) != ref.Num {
		return nil, fmt.Errorf("parser: object %d not at recorded offset", ref.Num)
	}
	genTok, err := sc.Next()
	if err != nil || genTok.Type != scanner.TokenNumber {
		return nil, fmt.Errorf("parser: object %d missing generation", ref.Num)
	}
	kw, err := sc.Next()
	if err != nil || kw.Type != scanner.TokenKeyword || kw.Text != "obj" {
		return nil, fmt.Errorf("parser: object %d missing obj keyword", ref.Num)
	}
	obj, err := d.parseValue(sc)
	if err != nil {
		return nil, err
	}
	// A dictionary followed by the stream keyword is a stream object.
	dict, isDict := obj.(*raw.DictObj)
	if isDict {
		save := sc.Position()
		next, err := sc.Next()
		if err == nil && next.Type == scanner.TokenKeyword && next.Text == "stream" {
			return d.parseStream(sc, dict)
		}
		if err := sc.Seek(save); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (d *Document) parseStream(sc *scanner.Scanner, dict *raw.DictObj) (raw.Object, error) {
	lengthObj, err := d.ResolvedDictEntry(dict, "Length")
	if err != nil {
		return nil, err
	}
	length, ok := lengthObj.(raw.NumberObj)
	if !ok {
		return nil, errors.New("parser: stream has no numeric Length")
	}
	sc.SkipEOL()
	data, err := sc.ReadRaw(length.Int())
	if err != nil {
		return nil, fmt.Errorf("parser: stream data: %w", err)
	}
	return raw.NewStream(dict, data), nil
}

func (d *Document) parseValue(sc *scanner.Scanner) (raw.Object, error) {
	tok, err := sc.Next()
	if err != nil {
		return nil, err
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
		return nil, fmt.Errorf("parser: unexpected keyword %q", tok.Text)
	case scanner.TokenArrayOpen:
		arr := raw.NewArray()
		for {
			save := sc.Position()
			t, err := sc.Next()
			if err != nil {
				return nil, err
			}
			if t.Type == scanner.TokenArrayClose {
				return arr, nil
			}
			if err := sc.Seek(save); err != nil {
				return nil, err
			}
			item, err := d.parseValue(sc)
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
				return nil, err
			}
			if t.Type == scanner.TokenDictClose {
				return dict, nil
			}
			if t.Type != scanner.TokenName {
				return nil, errors.New("parser: dictionary key is not a name")
			}
			val, err := d.parseValue(sc)
			if err != nil {
				return nil, err
			}
			dict.Set(t.Text, val)
		}
	}
	return nil, fmt.Errorf("parser: unexpected token %q", tok.Text)
}
