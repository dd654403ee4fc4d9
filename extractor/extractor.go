// Package extractor pulls named attachments back out of a document.
package extractor

import (
	"errors"
	"fmt"

	"github.com/mdkit/mdreport/ir/raw"
	"github.com/mdkit/mdreport/parser"
)

var (
	// ErrNoAttachments means the catalog has no EmbeddedFiles name tree.
	ErrNoAttachments = errors.New("extractor: document has no attachments")
	// ErrNotFound means the name tree exists but lacks the requested name.
	ErrNotFound = errors.New("extractor: attachment not found")
	// ErrStreamUnreadable means the filespec or its stream is damaged.
	ErrStreamUnreadable = errors.New("extractor: attachment stream unreadable")
)

// ExtractNamed returns the decoded payload of the attachment registered
// under name in the EmbeddedFiles name tree.
func ExtractNamed(data []byte, name string) ([]byte, error) {
	doc, err := parser.Load(data)
	if err != nil {
		return nil, err
	}
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	pairs, err := nameTreePairs(doc, catalog)
	if err != nil {
		return nil, err
	}
	for i := 0; i+1 < pairs.Len(); i += 2 {
		keyObj, _ := pairs.Get(i)
		key, ok := keyObj.(raw.StringObj)
		if !ok || string(key.Value()) != name {
			continue
		}
		specObj, _ := pairs.Get(i + 1)
		return readFilespec(doc, specObj)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Names lists the attachment names present in the document.
func Names(data []byte) ([]string, error) {
	doc, err := parser.Load(data)
	if err != nil {
		return nil, err
	}
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	pairs, err := nameTreePairs(doc, catalog)
	if err != nil {
		return nil, err
	}
	var names []string
	for i := 0; i+1 < pairs.Len(); i += 2 {
		keyObj, _ := pairs.Get(i)
		if key, ok := keyObj.(raw.StringObj); ok {
			names = append(names, string(key.Value()))
		}
	}
	return names, nil
}

// nameTreePairs walks Catalog -> Names -> EmbeddedFiles -> Names.
func nameTreePairs(doc *parser.Document, catalog *raw.DictObj) (*raw.ArrayObj, error) {
	namesObj, err := doc.ResolvedDictEntry(catalog, "Names")
	if err != nil {
		return nil, err
	}
	namesDict, ok := namesObj.(*raw.DictObj)
	if !ok {
		return nil, ErrNoAttachments
	}
	efObj, err := doc.ResolvedDictEntry(namesDict, "EmbeddedFiles")
	if err != nil {
		return nil, err
	}
	efDict, ok := efObj.(*raw.DictObj)
	if !ok {
		return nil, ErrNoAttachments
	}
	pairsObj, err := doc.ResolvedDictEntry(efDict, "Names")
	if err != nil {
		return nil, err
	}
	pairs, ok := pairsObj.(*raw.ArrayObj)
	if !ok {
		return nil, ErrNoAttachments
	}
	return pairs, nil
}

// readFilespec follows Filespec -> EF -> F to the stream and decodes it.
func readFilespec(doc *parser.Document, specObj raw.Object) ([]byte, error) {
	resolved, err := doc.Resolve(specObj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamUnreadable, err)
	}
	spec, ok := resolved.(*raw.DictObj)
	if !ok {
		return nil, ErrStreamUnreadable
	}
	efObj, err := doc.ResolvedDictEntry(spec, "EF")
	if err != nil || efObj == nil {
		return nil, ErrStreamUnreadable
	}
	ef, ok := efObj.(*raw.DictObj)
	if !ok {
		return nil, ErrStreamUnreadable
	}
	fObj, err := doc.ResolvedDictEntry(ef, "F")
	if err != nil || fObj == nil {
		return nil, ErrStreamUnreadable
	}
	stream, ok := fObj.(*raw.StreamObj)
	if !ok {
		return nil, ErrStreamUnreadable
	}
	payload, err := doc.StreamData(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamUnreadable, err)
	}
	return payload, nil
}
