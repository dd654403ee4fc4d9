// Package raw models the low-level PDF object graph: names, numbers,
// strings, arrays, dictionaries, streams and indirect references. It is the
// common currency between the writer, the parser and the extractor.
package raw

// ObjectRef identifies an indirect object by number and generation.
type ObjectRef struct {
	Num, Gen int
}

// Object is implemented by every raw PDF value.
type Object interface {
	Type() string
}
