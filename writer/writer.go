// Package writer serializes a semantic document to the binary container
// format: numbered objects, cross-reference table and trailer.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/mdkit/mdreport/contentstream"
	"github.com/mdkit/mdreport/filters"
	"github.com/mdkit/mdreport/ir/raw"
	"github.com/mdkit/mdreport/ir/semantic"
	"github.com/mdkit/mdreport/observability"
)

// Config controls serialization.
type Config struct {
	// CompressContent flate-compresses page content streams. Attachment
	// streams are always compressed.
	CompressContent bool
	Logger          observability.Logger
}

// Write serializes doc. Fonts and shadings shared between pages are
// written once and referenced from each page that uses them.
func Write(doc *semantic.Document, w io.Writer, cfg Config) error {
	if len(doc.Pages) == 0 {
		return errors.New("writer: document has no pages")
	}
	log := cfg.Logger
	if log == nil {
		log = observability.NopLogger{}
	}

	s := &serializer{cfg: cfg}
	if err := s.build(doc); err != nil {
		return err
	}
	log.Debug("serializing document",
		observability.Int("pages", len(doc.Pages)),
		observability.Int("objects", len(s.objects)))
	return s.emit(w)
}

// serializer assigns object numbers and renders the file image.
type serializer struct {
	cfg     Config
	objects []raw.Object // index i holds object number i+1
	rootNum int
	infoNum int
}

func (s *serializer) add(obj raw.Object) int {
	s.objects = append(s.objects, obj)
	return len(s.objects)
}

// reserve allocates an object number to be filled in later.
func (s *serializer) reserve() int {
	s.objects = append(s.objects, nil)
	return len(s.objects)
}

func (s *serializer) set(num int, obj raw.Object) { s.objects[num-1] = obj }

func (s *serializer) build(doc *semantic.Document) error {
	catalogNum := s.reserve()
	pagesNum := s.reserve()
	s.rootNum = catalogNum

	fontNums := make(map[*semantic.Font]int)
	shadingNums := make(map[*semantic.Shading]int)

	kids := raw.NewArray()
	for _, page := range doc.Pages {
		pageNum, err := s.buildPage(page, pagesNum, fontNums, shadingNums)
		if err != nil {
			return err
		}
		kids.Append(raw.Ref(pageNum, 0))
	}

	pages := raw.Dict()
	pages.Set("Type", raw.NameLiteral("Pages"))
	pages.Set("Kids", kids)
	pages.Set("Count", raw.NumberInt(int64(len(doc.Pages))))
	s.set(pagesNum, pages)

	catalog := raw.Dict()
	catalog.Set("Type", raw.NameLiteral("Catalog"))
	catalog.Set("Pages", raw.Ref(pagesNum, 0))
	if len(doc.EmbeddedFiles) > 0 {
		names, err := s.buildEmbeddedFiles(doc.EmbeddedFiles)
		if err != nil {
			return err
		}
		catalog.Set("Names", names)
	}
	s.set(catalogNum, catalog)

	if doc.Info != (semantic.DocumentInfo{}) {
		info := raw.Dict()
		if doc.Info.Title != "" {
			info.Set("Title", raw.Str([]byte(doc.Info.Title)))
		}
		if doc.Info.Author != "" {
			info.Set("Author", raw.Str([]byte(doc.Info.Author)))
		}
		if doc.Info.Creator != "" {
			info.Set("Creator", raw.Str([]byte(doc.Info.Creator)))
		}
		s.infoNum = s.add(info)
	}
	return nil
}

func (s *serializer) buildPage(page *semantic.Page, pagesNum int, fontNums map[*semantic.Font]int, shadingNums map[*semantic.Shading]int) (int, error) {
	contentNum, err := s.buildContent(page.Contents)
	if err != nil {
		return 0, err
	}

	// Resource names are visited sorted so object numbering does not
	// depend on map order.
	resources := raw.Dict()
	if page.Resources != nil && len(page.Resources.Fonts) > 0 {
		fonts := raw.Dict()
		for _, name := range sortedKeys(page.Resources.Fonts) {
			font := page.Resources.Fonts[name]
			num, ok := fontNums[font]
			if !ok {
				num = s.add(fontObject(font))
				fontNums[font] = num
			}
			fonts.Set(name, raw.Ref(num, 0))
		}
		resources.Set("Font", fonts)
	}
	if page.Resources != nil && len(page.Resources.Shadings) > 0 {
		shadings := raw.Dict()
		for _, name := range sortedKeys(page.Resources.Shadings) {
			sh := page.Resources.Shadings[name]
			num, ok := shadingNums[sh]
			if !ok {
				num = s.add(shadingObject(sh))
				shadingNums[sh] = num
			}
			shadings.Set(name, raw.Ref(num, 0))
		}
		resources.Set("Shading", shadings)
	}

	dict := raw.Dict()
	dict.Set("Type", raw.NameLiteral("Page"))
	dict.Set("Parent", raw.Ref(pagesNum, 0))
	dict.Set("MediaBox", rectArray(page.MediaBox))
	dict.Set("Resources", resources)
	dict.Set("Contents", raw.Ref(contentNum, 0))
	return s.add(dict), nil
}

func (s *serializer) buildContent(cs *semantic.ContentStream) (int, error) {
	data := cs.RawBytes
	dict := raw.Dict()
	if s.cfg.CompressContent {
		enc, err := filters.FlateEncode(data)
		if err != nil {
			return 0, fmt.Errorf("writer: compress content: %w", err)
		}
		data = enc
		dict.Set("Filter", raw.NameLiteral("FlateDecode"))
	}
	dict.Set("Length", raw.NumberInt(int64(len(data))))
	return s.add(raw.NewStream(dict, data)), nil
}

func fontObject(font *semantic.Font) raw.Object {
	dict := raw.Dict()
	dict.Set("Type", raw.NameLiteral("Font"))
	dict.Set("Subtype", raw.NameLiteral("Type1"))
	dict.Set("BaseFont", raw.NameLiteral(font.BaseFont))
	dict.Set("Encoding", raw.NameLiteral("WinAnsiEncoding"))
	return dict
}

func shadingObject(sh *semantic.Shading) raw.Object {
	coords := raw.NewArray()
	for _, c := range sh.Coords {
		coords.Append(numObj(c))
	}
	fn := raw.Dict()
	fn.Set("FunctionType", raw.NumberInt(2))
	fn.Set("Domain", raw.NewArray(raw.NumberInt(0), raw.NumberInt(1)))
	fn.Set("C0", colorArray(sh.C0))
	fn.Set("C1", colorArray(sh.C1))
	fn.Set("N", raw.NumberInt(1))

	dict := raw.Dict()
	dict.Set("ShadingType", raw.NumberInt(int64(sh.Kind)))
	dict.Set("ColorSpace", raw.NameLiteral("DeviceRGB"))
	dict.Set("Coords", coords)
	dict.Set("Function", fn)
	dict.Set("Extend", raw.NewArray(raw.Bool(sh.Extend[0]), raw.Bool(sh.Extend[1])))
	return dict
}

func colorArray(c [3]float64) *raw.ArrayObj {
	return raw.NewArray(numObj(c[0]), numObj(c[1]), numObj(c[2]))
}

func numObj(f float64) raw.Object {
	if f == float64(int64(f)) {
		return raw.NumberInt(int64(f))
	}
	return raw.NumberFloat(f)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rectArray(r semantic.Rectangle) *raw.ArrayObj {
	return raw.NewArray(numObj(r.LLX), numObj(r.LLY), numObj(r.URX), numObj(r.URY))
}

// buildEmbeddedFiles writes an attachment stream and filespec per file
// and returns the catalog Names dictionary.
func (s *serializer) buildEmbeddedFiles(files []*semantic.EmbeddedFile) (*raw.DictObj, error) {
	pairs := raw.NewArray()
	for _, f := range files {
		enc, err := filters.FlateEncode(f.Data)
		if err != nil {
			return nil, fmt.Errorf("writer: compress attachment %q: %w", f.Name, err)
		}
		streamDict := raw.Dict()
		streamDict.Set("Type", raw.NameLiteral("EmbeddedFile"))
		if f.Subtype != "" {
			streamDict.Set("Subtype", raw.NameLiteral(f.Subtype))
		}
		streamDict.Set("Filter", raw.NameLiteral("FlateDecode"))
		streamDict.Set("Length", raw.NumberInt(int64(len(enc))))
		params := raw.Dict()
		params.Set("Size", raw.NumberInt(int64(len(f.Data))))
		streamDict.Set("Params", params)
		streamNum := s.add(raw.NewStream(streamDict, enc))

		ef := raw.Dict()
		ef.Set("F", raw.Ref(streamNum, 0))
		spec := raw.Dict()
		spec.Set("Type", raw.NameLiteral("Filespec"))
		spec.Set("F", raw.Str([]byte(f.Name)))
		spec.Set("UF", raw.Str([]byte(f.Name)))
		spec.Set("EF", ef)
		specNum := s.add(spec)

		pairs.Append(raw.Str([]byte(f.Name)))
		pairs.Append(raw.Ref(specNum, 0))
	}
	tree := raw.Dict()
	tree.Set("Names", pairs)
	names := raw.Dict()
	names.Set("EmbeddedFiles", tree)
	return names, nil
}

func (s *serializer) emit(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int64, len(s.objects))
	for i, obj := range s.objects {
		if obj == nil {
			return fmt.Errorf("writer: object %d never assigned", i+1)
		}
		offsets[i] = int64(buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		if err := serializeObject(&buf, obj); err != nil {
			return err
		}
		buf.WriteString("\nendobj\n")
	}

	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(s.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := raw.Dict()
	trailer.Set("Size", raw.NumberInt(int64(len(s.objects)+1)))
	trailer.Set("Root", raw.Ref(s.rootNum, 0))
	if s.infoNum != 0 {
		trailer.Set("Info", raw.Ref(s.infoNum, 0))
	}
	buf.WriteString("trailer\n")
	if err := serializeObject(&buf, trailer); err != nil {
		return err
	}
	fmt.Fprintf(&buf, "\nstartxref\n%d\n%%%%EOF\n", xrefOff)

	_, err := w.Write(buf.Bytes())
	return err
}

// EncodeOperations is a convenience for callers assembling content
// streams outside the builder.
func EncodeOperations(ops []contentstream.Operation) *semantic.ContentStream {
	return &semantic.ContentStream{RawBytes: contentstream.Encode(ops)}
}
