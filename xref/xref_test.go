package xref

import (
	"fmt"
	"testing"

	"github.com/mdkit/mdreport/ir/raw"
)

func buildFile(body string) []byte {
	xrefOff := len(body)
	file := body + fmt.Sprintf(
		"xref\n0 3\n0000000000 65535 f \n0000000009 00000 n \n0000000074 00000 n \n"+
			"trailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOff)
	return []byte(file)
}

func TestFindStartXref(t *testing.T) {
	data := buildFile("%PDF-1.7\nbody...")
	off, err := FindStartXref(data)
	if err != nil {
		t.Fatalf("FindStartXref: %v", err)
	}
	if off != int64(len("%PDF-1.7\nbody...")) {
		t.Fatalf("offset %d", off)
	}
}

func TestFindStartXrefMissing(t *testing.T) {
	if _, err := FindStartXref([]byte("no trailer here")); err != ErrNoStartXref {
		t.Fatalf("err = %v, want ErrNoStartXref", err)
	}
}

func TestParseTable(t *testing.T) {
	data := buildFile("%PDF-1.7\nbody...")
	off, _ := FindStartXref(data)
	table, err := Parse(data, off)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(table.Entries) != 3 {
		t.Fatalf("got %d entries", len(table.Entries))
	}
	e := table.Entries[1]
	if !e.InUse || e.Offset != 9 {
		t.Errorf("entry 1: %+v", e)
	}
	if table.Entries[0].InUse {
		t.Error("free entry marked in use")
	}
	root, ok := table.Trailer.Get("Root")
	if !ok {
		t.Fatal("trailer missing Root")
	}
	ref, ok := root.(raw.RefObj)
	if !ok || ref.Ref().Num != 1 {
		t.Errorf("Root = %+v", root)
	}
	size, _ := table.Trailer.Get("Size")
	if n, ok := size.(raw.NumberObj); !ok || n.Int() != 3 {
		t.Errorf("Size = %+v", size)
	}
}

func TestParsePrevChain(t *testing.T) {
	// older section at offset "old", newer section points back via Prev
	old := "xref\n0 2\n0000000000 65535 f \n0000000100 00000 n \ntrailer\n<< /Size 2 >>\n"
	newer := fmt.Sprintf("xref\n1 1\n0000000200 00000 n \ntrailer\n<< /Size 2 /Prev %d >>\n", len("PAD"))
	data := []byte("PAD" + old + newer)
	table, err := Parse(data, int64(len("PAD"+old)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// newer entry wins
	if table.Entries[1].Offset != 200 {
		t.Errorf("entry 1 offset %d, want 200 from newer section", table.Entries[1].Offset)
	}
}
