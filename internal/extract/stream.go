// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// TJ displacements below these thresholds (thousandths of text space)
// read as a word gap and a column gap.
const (
	wordGap   = -200
	columnGap = -1000
)

type tokKind int

const (
	tokOperator tokKind = iota
	tokNumber
	tokString
	tokArray
	tokName
	tokOther
)

type token struct {
	kind  tokKind
	text  string
	num   float64
	items []token
}

// scanner tokenizes a PDF content stream.
type scanner struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == 0
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *scanner) next() (token, bool) {
	s.skipSpace()
	if s.pos >= len(s.data) {
		return token{}, false
	}
	switch c := s.data[s.pos]; {
	case c == '(':
		return token{kind: tokString, text: s.literal()}, true
	case c == '<' && s.pos+1 < len(s.data) && s.data[s.pos+1] == '<':
		s.pos += 2
		return token{kind: tokOther, text: "<<"}, true
	case c == '<':
		return token{kind: tokString, text: s.hex()}, true
	case c == '[':
		s.pos++
		var items []token
		for {
			s.skipSpace()
			if s.pos >= len(s.data) {
				break
			}
			if s.data[s.pos] == ']' {
				s.pos++
				break
			}
			t, ok := s.next()
			if !ok {
				break
			}
			items = append(items, t)
		}
		return token{kind: tokArray, items: items}, true
	case c == '/':
		start := s.pos
		s.pos++
		for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
			s.pos++
		}
		return token{kind: tokName, text: string(s.data[start:s.pos])}, true
	case isDelim(c):
		s.pos++
		return token{kind: tokOther, text: string(c)}, true
	}

	start := s.pos
	for s.pos < len(s.data) && !isSpace(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
		s.pos++
	}
	word := string(s.data[start:s.pos])
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return token{kind: tokNumber, text: word, num: n}, true
	}
	return token{kind: tokOperator, text: word}, true
}

// literal reads a parenthesized string, honoring nesting and escapes.
func (s *scanner) literal() string {
	s.pos++
	var raw []byte
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return decodeText(raw)
			}
		case '\\':
			if s.pos >= len(s.data) {
				continue
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				raw = append(raw, '\n')
			case 'r':
				raw = append(raw, '\r')
			case 't':
				raw = append(raw, '\t')
			case 'b':
				raw = append(raw, '\b')
			case 'f':
				raw = append(raw, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					raw = append(raw, byte(val))
				} else {
					raw = append(raw, e)
				}
			}
			continue
		}
		raw = append(raw, c)
	}
	return decodeText(raw)
}

// hex reads a <...> string.
func (s *scanner) hex() string {
	s.pos++
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if c := s.data[s.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		b, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(b))
	}
	return decodeText(raw)
}

// decodeText interprets string bytes as UTF-16BE when they carry a byte
// order mark and as Latin-1 otherwise.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, len(raw)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// pageLines reads the text-showing operators of a content stream and
// returns the visual lines they produce. Horizontal jumps within a line
// become tabs so that tabular layouts can be recognized later.
func pageLines(data []byte) []string {
	var (
		lines    []string
		cur      strings.Builder
		operands []token
		lastY    float64
		haveY    bool
	)
	newline := func() {
		lines = append(lines, cur.String())
		cur.Reset()
	}
	show := func(t token) {
		if t.kind == tokString {
			cur.WriteString(t.text)
		}
	}

	s := &scanner{data: data}
	for {
		tok, ok := s.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}
		switch tok.text {
		case "Tj":
			for _, o := range operands {
				show(o)
			}
		case "'", `"`:
			newline()
			if len(operands) > 0 {
				show(operands[len(operands)-1])
			}
		case "TJ":
			for _, o := range operands {
				for _, it := range o.items {
					switch {
					case it.kind == tokString:
						cur.WriteString(it.text)
					case it.kind == tokNumber && it.num < columnGap:
						cur.WriteByte('\t')
					case it.kind == tokNumber && it.num < wordGap:
						cur.WriteByte(' ')
					}
				}
			}
		case "Td", "TD":
			if len(operands) >= 2 {
				switch {
				case operands[1].num != 0:
					newline()
				case operands[0].num > 0 && cur.Len() > 0:
					cur.WriteByte('\t')
				}
			}
		case "T*":
			newline()
		case "Tm":
			if len(operands) >= 6 {
				y := operands[5].num
				if haveY && y != lastY {
					newline()
				}
				lastY, haveY = y, true
			}
		}
		operands = operands[:0]
	}
	newline()

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = cleanLine(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// cleanLine drops unprintable runes, collapses spaces and keeps single
// tabs as column separators.
func cleanLine(line string) string {
	var b strings.Builder
	var pending rune
	for _, r := range line {
		switch {
		case r == '\t':
			pending = '\t'
		case unicode.IsSpace(r):
			if pending == 0 {
				pending = ' '
			}
		case unicode.IsPrint(r):
			if pending != 0 && b.Len() > 0 {
				b.WriteRune(pending)
			}
			pending = 0
			b.WriteRune(r)
		}
	}
	return b.String()
}
