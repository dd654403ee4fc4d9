// Package scanner tokenizes the body syntax: names, numbers, strings,
// dictionary and array delimiters, and bare keywords.
package scanner

import (
	"errors"
	"io"
	"strconv"
)

type TokenType int

const (
	TokenDictOpen   TokenType = iota // '<<'
	TokenDictClose                   // '>>'
	TokenArrayOpen                   // '['
	TokenArrayClose                  // ']'
	TokenName                        // '/Name'
	TokenString                      // literal or hex string, Bytes holds the payload
	TokenNumber                      // Num holds the value
	TokenKeyword                     // obj, endobj, stream, R, true, false, null, ...
)

type Token struct {
	Type  TokenType
	Text  string
	Bytes []byte
	Num   float64
	IsInt bool
	Pos   int64
}

// Scanner walks a fully buffered document.
type Scanner struct {
	data []byte
	pos  int64
}

func New(data []byte) *Scanner { return &Scanner{data: data} }

func (s *Scanner) Position() int64 { return s.pos }

func (s *Scanner) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(s.data)) {
		return errors.New("seek out of range")
	}
	s.pos = offset
	return nil
}

// ReadRaw returns n bytes from the current position and advances past
// them. Used for stream payloads, which are not tokenized.
func (s *Scanner) ReadRaw(n int64) ([]byte, error) {
	if n < 0 || s.pos+n > int64(len(s.data)) {
		return nil, io.ErrUnexpectedEOF
	}
	out := s.data[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

// SkipEOL consumes a single CR, LF or CRLF. The stream keyword is
// followed by exactly one end-of-line before the data.
func (s *Scanner) SkipEOL() {
	if s.pos < int64(len(s.data)) && s.data[s.pos] == '\r' {
		s.pos++
	}
	if s.pos < int64(len(s.data)) && s.data[s.pos] == '\n' {
		s.pos++
	}
}

func (s *Scanner) Next() (Token, error) {
	s.skipWSAndComments()
	if s.pos >= int64(len(s.data)) {
		return Token{}, io.EOF
	}
	start := s.pos
	c := s.data[s.pos]
	switch c {
	case '<':
		if s.peek(1) == '<' {
			s.pos += 2
			return Token{Type: TokenDictOpen, Text: "<<", Pos: start}, nil
		}
		return s.scanHexString(start)
	case '>':
		if s.peek(1) == '>' {
			s.pos += 2
			return Token{Type: TokenDictClose, Text: ">>", Pos: start}, nil
		}
		return Token{}, errors.New("scanner: stray '>'")
	case '[':
		s.pos++
		return Token{Type: TokenArrayOpen, Text: "[", Pos: start}, nil
	case ']':
		s.pos++
		return Token{Type: TokenArrayClose, Text: "]", Pos: start}, nil
	case '(':
		return s.scanLiteralString(start)
	case '/':
		return s.scanName(start)
	}
	if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
		return s.scanNumber(start)
	}
	return s.scanKeyword(start)
}

func (s *Scanner) peek(ahead int64) byte {
	if s.pos+ahead >= int64(len(s.data)) {
		return 0
	}
	return s.data[s.pos+ahead]
}

func isWhitespace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (s *Scanner) skipWSAndComments() {
	for s.pos < int64(len(s.data)) {
		c := s.data[s.pos]
		if isWhitespace(c) {
			s.pos++
			continue
		}
		if c == '%' {
			for s.pos < int64(len(s.data)) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		return
	}
}

func (s *Scanner) scanName(start int64) (Token, error) {
	s.pos++ // consume '/'
	var out []byte
	for s.pos < int64(len(s.data)) {
		c := s.data[s.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && s.pos+2 < int64(len(s.data)) {
			hi := hexVal(s.data[s.pos+1])
			lo := hexVal(s.data[s.pos+2])
			if hi >= 0 && lo >= 0 {
				out = append(out, byte(hi<<4|lo))
				s.pos += 3
				continue
			}
		}
		out = append(out, c)
		s.pos++
	}
	return Token{Type: TokenName, Text: string(out), Pos: start}, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

func (s *Scanner) scanNumber(start int64) (Token, error) {
	end := s.pos
	isInt := true
	for end < int64(len(s.data)) {
		c := s.data[end]
		if c == '.' {
			isInt = false
			end++
			continue
		}
		if c == '+' || c == '-' || (c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	text := string(s.data[s.pos:end])
	s.pos = end
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Token{}, errors.New("scanner: bad number " + strconv.Quote(text))
	}
	return Token{Type: TokenNumber, Text: text, Num: f, IsInt: isInt, Pos: start}, nil
}

func (s *Scanner) scanKeyword(start int64) (Token, error) {
	end := s.pos
	for end < int64(len(s.data)) {
		c := s.data[end]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		end++
	}
	if end == s.pos {
		return Token{}, errors.New("scanner: unexpected byte " + strconv.Quote(string(s.data[s.pos])))
	}
	text := string(s.data[s.pos:end])
	s.pos = end
	return Token{Type: TokenKeyword, Text: text, Pos: start}, nil
}

func (s *Scanner) scanLiteralString(start int64) (Token, error) {
	s.pos++ // consume '('
	var out []byte
	depth := 1
	for s.pos < int64(len(s.data)) {
		c := s.data[s.pos]
		switch c {
		case '\\':
			s.pos++
			if s.pos >= int64(len(s.data)) {
				return Token{}, io.ErrUnexpectedEOF
			}
			e := s.data[s.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\r':
				// line continuation, swallow optional LF
				if s.peek(1) == '\n' {
					s.pos++
				}
			case '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for k := 0; k < 2; k++ {
						nc := s.peek(1)
						if nc < '0' || nc > '7' {
							break
						}
						v = v<<3 | int(nc-'0')
						s.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			s.pos++
		case '(':
			depth++
			out = append(out, c)
			s.pos++
		case ')':
			depth--
			s.pos++
			if depth == 0 {
				return Token{Type: TokenString, Bytes: out, Pos: start}, nil
			}
			out = append(out, c)
		default:
			out = append(out, c)
			s.pos++
		}
	}
	return Token{}, io.ErrUnexpectedEOF
}

func (s *Scanner) scanHexString(start int64) (Token, error) {
	s.pos++ // consume '<'
	var nibbles []int
	for s.pos < int64(len(s.data)) {
		c := s.data[s.pos]
		if c == '>' {
			s.pos++
			if len(nibbles)%2 == 1 {
				nibbles = append(nibbles, 0)
			}
			out := make([]byte, 0, len(nibbles)/2)
			for i := 0; i+1 < len(nibbles); i += 2 {
				out = append(out, byte(nibbles[i]<<4|nibbles[i+1]))
			}
			return Token{Type: TokenString, Bytes: out, Pos: start}, nil
		}
		if isWhitespace(c) {
			s.pos++
			continue
		}
		v := hexVal(c)
		if v < 0 {
			return Token{}, errors.New("scanner: bad hex digit in string")
		}
		nibbles = append(nibbles, v)
		s.pos++
	}
	return Token{}, io.ErrUnexpectedEOF
}
