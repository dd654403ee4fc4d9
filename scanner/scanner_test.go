package scanner

import (
	"io"
	"testing"
)

func collect(t *testing.T, src string) []Token {
	t.Helper()
	s := New([]byte(src))
	var toks []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return toks
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
	}
}

func TestScanDict(t *testing.T) {
	toks := collect(t, "<< /Type /Catalog /Count 3 >>")
	types := []TokenType{TokenDictOpen, TokenName, TokenName, TokenName, TokenNumber, TokenDictClose}
	if len(toks) != len(types) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(types))
	}
	for i, want := range types {
		if toks[i].Type != want {
			t.Errorf("token %d: type %v, want %v", i, toks[i].Type, want)
		}
	}
	if toks[1].Text != "Type" || toks[2].Text != "Catalog" {
		t.Errorf("name values wrong: %q %q", toks[1].Text, toks[2].Text)
	}
	if toks[4].Num != 3 || !toks[4].IsInt {
		t.Errorf("number token wrong: %+v", toks[4])
	}
}

func TestScanLiteralString(t *testing.T) {
	toks := collect(t, `(Hello \(nested\) \\ world)`)
	if len(toks) != 1 || toks[0].Type != TokenString {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	if got := string(toks[0].Bytes); got != `Hello (nested) \ world` {
		t.Errorf("string payload %q", got)
	}
}

func TestScanNestedParens(t *testing.T) {
	toks := collect(t, "(a (b) c)")
	if got := string(toks[0].Bytes); got != "a (b) c" {
		t.Errorf("payload %q", got)
	}
}

func TestScanHexString(t *testing.T) {
	toks := collect(t, "<48 65 6C6C 6F>")
	if got := string(toks[0].Bytes); got != "Hello" {
		t.Errorf("payload %q", got)
	}
}

func TestScanNameWithEscape(t *testing.T) {
	toks := collect(t, "/A#20B")
	if toks[0].Text != "A B" {
		t.Errorf("name %q", toks[0].Text)
	}
}

func TestScanNumbers(t *testing.T) {
	toks := collect(t, "12 -7 0.5 .25")
	wantNums := []float64{12, -7, 0.5, 0.25}
	wantInts := []bool{true, true, false, false}
	for i, tok := range toks {
		if tok.Num != wantNums[i] || tok.IsInt != wantInts[i] {
			t.Errorf("token %d: %+v", i, tok)
		}
	}
}

func TestScanCommentsSkipped(t *testing.T) {
	toks := collect(t, "%PDF-1.7\n42 % trailing\ntrue")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens", len(toks))
	}
	if toks[0].Num != 42 || toks[1].Text != "true" {
		t.Errorf("tokens %+v", toks)
	}
}

func TestReadRawAndSkipEOL(t *testing.T) {
	s := New([]byte("stream\r\nDATA4endstream"))
	tok, err := s.Next()
	if err != nil || tok.Text != "stream" {
		t.Fatalf("stream keyword: %+v %v", tok, err)
	}
	s.SkipEOL()
	data, err := s.ReadRaw(5)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if string(data) != "DATA4" {
		t.Errorf("raw data %q", data)
	}
}
