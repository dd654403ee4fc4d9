// Package filters implements the stream encodings the reader and writer
// need. FlateDecode carries all generated content; the ASCII decoders
// cover documents produced by other tools.
package filters

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	stdascii85 "encoding/ascii85"
	"encoding/hex"
	"errors"
	"io"
)

// Decoder decodes one stream filter.
type Decoder interface {
	Name() string
	Decode(input []byte) ([]byte, error)
}

// DecoderFor returns the decoder for a filter name.
func DecoderFor(name string) (Decoder, bool) {
	switch name {
	case "FlateDecode":
		return flateDecoder{}, true
	case "ASCIIHexDecode":
		return asciiHexDecoder{}, true
	case "ASCII85Decode":
		return ascii85Decoder{}, true
	}
	return nil, false
}

// FlateEncode compresses data for a FlateDecode stream.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type flateDecoder struct{}

func (flateDecoder) Name() string { return "FlateDecode" }

// Decode accepts both zlib-wrapped and raw deflate payloads. Some
// producers omit the zlib header.
func (flateDecoder) Decode(in []byte) ([]byte, error) {
	if r, err := zlib.NewReader(bytes.NewReader(in)); err == nil {
		defer r.Close()
		var out bytes.Buffer
		if _, err := io.Copy(&out, r); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}
	r := flate.NewReader(bytes.NewReader(in))
	defer r.Close()
	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type asciiHexDecoder struct{}

func (asciiHexDecoder) Name() string { return "ASCIIHexDecode" }

func (asciiHexDecoder) Decode(in []byte) ([]byte, error) {
	trimmed := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f':
			return -1
		}
		return r
	}, in)
	if i := bytes.IndexByte(trimmed, '>'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if len(trimmed)%2 == 1 {
		trimmed = append(trimmed, '0')
	}
	result := make([]byte, hex.DecodedLen(len(trimmed)))
	n, err := hex.Decode(result, trimmed)
	if err != nil {
		return nil, err
	}
	return result[:n], nil
}

type ascii85Decoder struct{}

func (ascii85Decoder) Name() string { return "ASCII85Decode" }

func (ascii85Decoder) Decode(in []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(in)
	if bytes.HasPrefix(trimmed, []byte("<~")) {
		trimmed = trimmed[2:]
	}
	if bytes.HasSuffix(trimmed, []byte("~>")) {
		trimmed = trimmed[:len(trimmed)-2]
	}
	out := make([]byte, len(trimmed)*2)
	n, _, err := stdascii85.Decode(out, trimmed, true)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// DecodeChain runs a stream through each named filter in order.
func DecodeChain(data []byte, filterNames []string) ([]byte, error) {
	for _, name := range filterNames {
		dec, ok := DecoderFor(name)
		if !ok {
			return nil, errors.New("unknown filter: " + name)
		}
		out, err := dec.Decode(data)
		if err != nil {
			return nil, err
		}
		data = out
	}
	return data, nil
}
